package linkcheck

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nao1215/sitelens/internal/document"
	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
)

// Guard validates derived paths. *pathguard.Resolver implements it.
type Guard interface {
	AssertContained(path string) (pathguard.ResolvedPath, error)
	RootOf(path pathguard.ResolvedPath) (string, bool)
}

// schemePattern matches any URL scheme such as https:, mailto: or data:.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// directoryIndexes are served for links that point at a directory.
var directoryIndexes = []string{"index.html", "index.htm"}

// Checker checks links of HTML documents.
type Checker struct {
	guard      Guard
	extensions map[string]bool
	stat       func(string) (fs.FileInfo, error)
	logger     *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithExtensions restricts checking to targets with the given extensions.
// Other local targets are reported as skipped. Extensions may be given
// with or without the leading dot.
func WithExtensions(exts []string) Option {
	return func(c *Checker) {
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			if c.extensions == nil {
				c.extensions = make(map[string]bool)
			}
			c.extensions[e] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker bound to guard.
func NewChecker(guard Guard, opts ...Option) *Checker {
	c := &Checker{
		guard:  guard,
		stat:   os.Stat,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckFiles checks every link of every document, in document order.
// Documents that cannot be parsed are skipped.
func (c *Checker) CheckFiles(ctx context.Context, files []pathguard.ResolvedPath) ([]model.LinkResult, error) {
	results := make([]model.LinkResult, 0)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := document.ParseFile(file.String())
		if err != nil {
			c.logger.Debug("skipping unreadable document", "file", file.String(), "error", err)
			continue
		}
		results = append(results, c.CheckDocument(file, doc)...)
	}
	return results, nil
}

// CheckDocument checks the links of one parsed document located at file.
func (c *Checker) CheckDocument(file pathguard.ResolvedPath, doc *document.Document) []model.LinkResult {
	links := doc.CollectLinks()
	results := make([]model.LinkResult, 0, len(links))
	for _, l := range links {
		results = append(results, c.checkLink(file, l.Value))
	}
	return results
}

func (c *Checker) checkLink(file pathguard.ResolvedPath, href string) model.LinkResult {
	result := model.LinkResult{File: file.String(), Link: href}

	switch {
	case strings.HasPrefix(href, "//") || schemePattern.MatchString(href):
		result.External = true
		result.Status = model.LinkSkipped
		return result
	case strings.HasPrefix(href, "#"):
		return ok(result)
	}

	target := stripQueryAndFragment(href)
	if target == "" {
		// "?page=2" refers to the document itself.
		return ok(result)
	}
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	target = filepath.FromSlash(target)

	var abs string
	if strings.HasPrefix(target, string(filepath.Separator)) {
		root, found := c.guard.RootOf(file)
		if !found {
			result.Status = model.LinkMissing
			return result
		}
		abs = filepath.Join(root, target)
	} else {
		abs = filepath.Join(filepath.Dir(file.String()), target)
	}

	if c.extensions != nil && !c.extensions[strings.ToLower(filepath.Ext(abs))] {
		result.Status = model.LinkSkipped
		return result
	}

	resolved, err := c.guard.AssertContained(abs)
	if err != nil {
		result.Status = model.LinkMissing
		return result
	}
	if c.exists(resolved.String()) {
		return ok(result)
	}
	result.Status = model.LinkMissing
	return result
}

// exists reports whether path is a regular file, or a directory holding
// an index document.
func (c *Checker) exists(path string) bool {
	info, err := c.stat(path)
	if err != nil {
		return false
	}
	if info.Mode().IsRegular() {
		return true
	}
	if !info.IsDir() {
		return false
	}
	for _, index := range directoryIndexes {
		if fi, err := c.stat(filepath.Join(path, index)); err == nil && fi.Mode().IsRegular() {
			return true
		}
	}
	return false
}

func ok(r model.LinkResult) model.LinkResult {
	r.OK = true
	r.Status = model.LinkOK
	return r
}

func stripQueryAndFragment(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		return href[:i]
	}
	return href
}
