package sitefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
)

// MaxDepth bounds sitemap recursion.
const MaxDepth = 20

// Node types.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// Node is one entry of a sitemap tree.
type Node struct {
	Path     string  `json:"path"`
	Type     string  `json:"type"`
	Children []*Node `json:"children,omitempty"`
}

// TreeOptions controls Tree.
type TreeOptions struct {
	// IncludeHTMLOnly drops files without an .html or .htm extension.
	IncludeHTMLOnly bool

	// MaxDepth is clamped to [0, MaxDepth]. Depth 0 lists the target's
	// children without descending into subdirectories.
	MaxDepth int
}

// ClampDepth clamps d to [0, MaxDepth].
func ClampDepth(d int) int {
	if d < 0 {
		return 0
	}
	if d > MaxDepth {
		return MaxDepth
	}
	return d
}

// Tree walks target and returns its file/dir tree. Children are sorted by
// name; entries that cannot be read are skipped. Symbolic links are listed
// as files and never followed.
func Tree(target pathguard.ResolvedPath, opts TreeOptions) (*Node, error) {
	info, err := os.Stat(target.String())
	if err != nil {
		return nil, model.WrapError(model.CodeNotFound, err, "cannot stat %s", target)
	}
	if !info.IsDir() {
		return &Node{Path: target.String(), Type: TypeFile}, nil
	}

	root := &Node{Path: target.String(), Type: TypeDir, Children: make([]*Node, 0)}
	walk(root, 0, ClampDepth(opts.MaxDepth), opts.IncludeHTMLOnly)
	return root, nil
}

func walk(parent *Node, depth, maxDepth int, htmlOnly bool) {
	if depth > maxDepth {
		return
	}
	entries, err := os.ReadDir(parent.Path)
	if err != nil {
		return
	}
	// os.ReadDir returns entries sorted by name.
	for _, e := range entries {
		p := filepath.Join(parent.Path, e.Name())
		if e.IsDir() {
			child := &Node{Path: p, Type: TypeDir, Children: make([]*Node, 0)}
			parent.Children = append(parent.Children, child)
			walk(child, depth+1, maxDepth, htmlOnly)
			continue
		}
		if htmlOnly && !IsHTML(p) {
			continue
		}
		parent.Children = append(parent.Children, &Node{Path: p, Type: TypeFile})
	}
}

// IsHTML reports whether path has an .html or .htm extension, ignoring case.
func IsHTML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// Count returns the number of files and directories below n, n included.
func (n *Node) Count() (files, dirs int) {
	if n.Type == TypeFile {
		return 1, 0
	}
	dirs = 1
	for _, c := range n.Children {
		f, d := c.Count()
		files += f
		dirs += d
	}
	return files, dirs
}

// String renders the tree with two-space indentation, relative to n.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b, n.Path, 0)
	return b.String()
}

func (n *Node) render(b *strings.Builder, base string, level int) {
	name := n.Path
	if level > 0 {
		if rel, err := filepath.Rel(base, n.Path); err == nil {
			name = filepath.Base(rel)
		}
	}
	if n.Type == TypeDir {
		name += string(filepath.Separator)
	}
	fmt.Fprintf(b, "%s%s\n", strings.Repeat("  ", level), name)
	for _, c := range n.Children {
		c.render(b, base, level+1)
	}
}
