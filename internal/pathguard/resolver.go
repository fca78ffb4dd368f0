package pathguard

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/sitelens/internal/model"
)

// ResolvedPath is an absolute, normalized path known to lie inside an
// allowed root.
type ResolvedPath string

// String returns the path as a plain string.
func (p ResolvedPath) String() string {
	return string(p)
}

// StatFunc reports file information for a path. It matches os.Stat.
type StatFunc func(name string) (fs.FileInfo, error)

// Resolver validates caller-supplied paths against allowed roots.
type Resolver struct {
	roots []string
	stat  StatFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStat replaces the function used to check existence.
func WithStat(stat StatFunc) Option {
	return func(r *Resolver) {
		if stat != nil {
			r.stat = stat
		}
	}
}

// NewResolver creates a Resolver. Roots are normalized and duplicates are
// removed; the first occurrence keeps its position.
func NewResolver(roots []string, opts ...Option) *Resolver {
	r := &Resolver{
		roots: dedupNormalized(roots),
		stat:  os.Stat,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Roots returns a copy of the allowed roots in declared order.
func (r *Resolver) Roots() []string {
	out := make([]string, len(r.roots))
	copy(out, r.roots)
	return out
}

// HasRoots reports whether at least one root is configured.
func (r *Resolver) HasRoots() bool {
	return len(r.roots) > 0
}

// Resolve turns caller input into a ResolvedPath.
//
// An absolute input outside every root fails with AccessDenied before the
// filesystem is consulted. A relative input is joined to each root in order
// and the first candidate that stays inside that root and exists wins.
func (r *Resolver) Resolve(input string) (ResolvedPath, error) {
	if strings.TrimSpace(input) == "" {
		return "", model.NewError(model.CodeInvalidArgument, "path must not be empty")
	}
	if !r.HasRoots() {
		return "", model.ErrNoRootsConfigured
	}

	if isAbs(input) {
		candidate := Normalize(input)
		if !IsWithinAnyRoot(candidate, r.roots) {
			return "", model.NewError(model.CodeAccessDenied, "path %q is outside the allowed roots", input)
		}
		if !r.exists(candidate) {
			return "", model.NewError(model.CodeNotFound, "path %q does not exist", input)
		}
		return ResolvedPath(candidate), nil
	}

	for _, root := range r.roots {
		candidate := Normalize(filepath.Join(root, unifySeparators(input)))
		if !IsWithinAnyRoot(candidate, []string{root}) {
			continue
		}
		if r.exists(candidate) {
			return ResolvedPath(candidate), nil
		}
	}
	return "", model.NewError(model.CodeNotFound, "path %q was not found under any allowed root", input)
}

// AssertContained re-validates a path derived from file contents, such as
// a link target or a glob match. It does not check existence.
func (r *Resolver) AssertContained(path string) (ResolvedPath, error) {
	if !r.HasRoots() {
		return "", model.ErrNoRootsConfigured
	}
	candidate := Normalize(path)
	if !IsWithinAnyRoot(candidate, r.roots) {
		return "", model.NewError(model.CodeAccessDenied, "path %q escapes the allowed roots", path)
	}
	return ResolvedPath(candidate), nil
}

// RootOf returns the first allowed root containing path.
func (r *Resolver) RootOf(path ResolvedPath) (string, bool) {
	for _, root := range r.roots {
		if IsWithinAnyRoot(string(path), []string{root}) {
			return root, true
		}
	}
	return "", false
}

// Stat returns file information for a contained path using the
// resolver's stat function.
func (r *Resolver) Stat(path ResolvedPath) (fs.FileInfo, error) {
	return r.stat(string(path))
}

func (r *Resolver) exists(path string) bool {
	_, err := r.stat(path)
	return err == nil
}
