package sitefs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
)

// DefaultAssetPattern matches the static asset types audited by default.
const DefaultAssetPattern = "**/*.{css,js,png,jpg,jpeg,svg,webp,ico,woff,woff2,ttf,otf}"

// allFiles is filtered with IsHTML so every spelling of the extension
// matches.
const allFiles = "**/*"

// Guard re-validates derived paths. *pathguard.Resolver implements it.
type Guard interface {
	AssertContained(path string) (pathguard.ResolvedPath, error)
}

// HTMLFiles lists the HTML documents of target. A file target yields itself
// when it is an HTML file; a directory yields every HTML file below it,
// sorted. Hidden files and directories are skipped.
func HTMLFiles(guard Guard, target pathguard.ResolvedPath) ([]pathguard.ResolvedPath, error) {
	info, err := os.Stat(target.String())
	if err != nil {
		return nil, model.WrapError(model.CodeNotFound, err, "cannot stat %s", target)
	}
	if !info.IsDir() {
		if IsHTML(target.String()) {
			return []pathguard.ResolvedPath{target}, nil
		}
		return []pathguard.ResolvedPath{}, nil
	}
	return glob(guard, target, []string{allFiles}, IsHTML)
}

// Assets lists asset files of target matching patterns, or
// DefaultAssetPattern when none are given. Patterns without a '/' match at
// any depth. A file target yields itself.
func Assets(guard Guard, target pathguard.ResolvedPath, patterns []string) ([]pathguard.ResolvedPath, error) {
	info, err := os.Stat(target.String())
	if err != nil {
		return nil, model.WrapError(model.CodeNotFound, err, "cannot stat %s", target)
	}
	if !info.IsDir() {
		return []pathguard.ResolvedPath{target}, nil
	}
	return glob(guard, target, NormalizePatterns(patterns), nil)
}

// NormalizePatterns applies the default pattern and the "**/" prefix rule.
func NormalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			p = "**/" + p
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		out = append(out, DefaultAssetPattern)
	}
	return out
}

// glob returns the visible files under dir matching any pattern and, when
// keep is non-nil, accepted by keep.
func glob(guard Guard, dir pathguard.ResolvedPath, patterns []string, keep func(string) bool) ([]pathguard.ResolvedPath, error) {
	fsys := os.DirFS(dir.String())
	seen := make(map[pathguard.ResolvedPath]struct{})
	out := make([]pathguard.ResolvedPath, 0)

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, model.NewError(model.CodeInvalidArgument, "invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, model.WrapError(model.CodeInvalidArgument, err, "glob %q failed", pattern)
		}
		for _, m := range matches {
			if isHidden(m) || (keep != nil && !keep(m)) {
				continue
			}
			resolved, err := guard.AssertContained(filepath.Join(dir.String(), filepath.FromSlash(m)))
			if err != nil {
				continue
			}
			if _, ok := seen[resolved]; ok {
				continue
			}
			seen[resolved] = struct{}{}
			out = append(out, resolved)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// isHidden reports whether any element of a slash-separated relative path
// starts with a dot.
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
