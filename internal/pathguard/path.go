package pathguard

import (
	"os"
	"path/filepath"
	"strings"
)

// Normalize returns the absolute, cleaned form of path. Both '/' and '\'
// are treated as separators. Only the working directory is read.
func Normalize(path string) string {
	p := unifySeparators(path)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// IsWithinAnyRoot reports whether candidate equals a root or descends from
// one. Both sides are expected in normalized form.
func IsWithinAnyRoot(candidate string, roots []string) bool {
	for _, root := range roots {
		if candidate == root {
			return true
		}
		rel, err := filepath.Rel(root, candidate)
		if err != nil || filepath.IsAbs(rel) {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return true
	}
	return false
}

// SplitRoots parses a ';'-separated root list. Entries are trimmed,
// empty entries dropped, and duplicates removed after normalization.
func SplitRoots(raw string) []string {
	return dedupNormalized(strings.Split(raw, ";"))
}

func dedupNormalized(roots []string) []string {
	out := make([]string, 0, len(roots))
	seen := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		n := Normalize(root)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func unifySeparators(path string) string {
	if os.PathSeparator == '/' {
		return strings.ReplaceAll(path, `\`, "/")
	}
	return strings.ReplaceAll(path, "/", string(os.PathSeparator))
}

// isAbs decides absoluteness on the raw input, before normalization turns
// every path absolute.
func isAbs(path string) bool {
	return filepath.IsAbs(unifySeparators(path))
}
