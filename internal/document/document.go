package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML file.
type Document struct {
	// Path is the file the document was read from, if any.
	Path string

	root *html.Node
}

// Parse reads HTML from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML string. It is a convenience for tests and
// small fragments.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile reads and parses the file at path. Content is assumed to be
// UTF-8.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is validated by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Elements returns every element with the given tag name, in document order.
func (d *Document) Elements(tag string) []*html.Node {
	var found []*html.Node
	d.walk(func(n *html.Node) {
		if n.Data == tag {
			found = append(found, n)
		}
	})
	return found
}

// walk calls fn for every element node in document order.
func (d *Document) walk(fn func(*html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

// Attr returns the value of attribute key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// getAttr retrieves an attribute value, or "" when absent.
func getAttr(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return v
}

// hasAncestor reports whether any ancestor of n is a tag element.
func hasAncestor(n *html.Node, tag string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return true
		}
	}
	return false
}
