package document

import (
	"strings"

	"golang.org/x/net/html"
)

// Link is a URL-bearing attribute found in a document.
type Link struct {
	Tag   string
	Attr  string
	Value string
}

// linkSources lists the link-bearing attributes in collection order.
var linkSources = []struct {
	tag  string
	attr string
}{
	{"a", "href"},
	{"link", "href"},
	{"script", "src"},
	{"img", "src"},
	{"source", "src"},
	{"video", "src"},
	{"audio", "src"},
}

// CollectLinks returns every non-empty link attribute. All anchors come
// first, then stylesheets and the other sources, each group in document
// order. Values are trimmed.
func (d *Document) CollectLinks() []Link {
	links := make([]Link, 0)
	for _, src := range linkSources {
		for _, n := range d.Elements(src.tag) {
			v := strings.TrimSpace(getAttr(n, src.attr))
			if v == "" {
				continue
			}
			links = append(links, Link{Tag: src.tag, Attr: src.attr, Value: v})
		}
	}
	return links
}

// labelableInputTypes are the input types that must carry a label.
// An input without a type attribute is a text input.
var labelableInputTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"password": true,
	"checkbox": true,
	"radio":    true,
}

// InputsNeedingLabel returns form controls that have neither a
// label[for=id] nor a wrapping label element.
func (d *Document) InputsNeedingLabel() []*html.Node {
	labelFor := make(map[string]bool)
	for _, lbl := range d.Elements("label") {
		if f := getAttr(lbl, "for"); f != "" {
			labelFor[f] = true
		}
	}

	var needing []*html.Node
	d.walk(func(n *html.Node) {
		if !isLabelable(n) {
			return
		}
		if id := strings.TrimSpace(getAttr(n, "id")); id != "" && labelFor[id] {
			return
		}
		if hasAncestor(n, "label") {
			return
		}
		needing = append(needing, n)
	})
	return needing
}

func isLabelable(n *html.Node) bool {
	switch n.Data {
	case "select", "textarea":
		return true
	case "input":
		t, ok := Attr(n, "type")
		if !ok {
			return true
		}
		return labelableInputTypes[strings.ToLower(strings.TrimSpace(t))]
	default:
		return false
	}
}

// Headings returns the level (1-6) of every h1-h6 element in document order.
func (d *Document) Headings() []int {
	var levels []int
	d.walk(func(n *html.Node) {
		if len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6' {
			levels = append(levels, int(n.Data[1]-'0'))
		}
	})
	return levels
}

var (
	landmarkElements = map[string]bool{
		"main": true, "nav": true, "header": true, "footer": true, "aside": true,
	}
	landmarkRoles = map[string]bool{
		"main": true, "navigation": true, "banner": true, "contentinfo": true, "complementary": true,
	}
)

// HasLandmark reports whether the document has a landmark element or an
// element with an equivalent ARIA role.
func (d *Document) HasLandmark() bool {
	found := false
	d.walk(func(n *html.Node) {
		if found {
			return
		}
		if landmarkElements[n.Data] {
			found = true
			return
		}
		if role, ok := Attr(n, "role"); ok && landmarkRoles[strings.ToLower(strings.TrimSpace(role))] {
			found = true
		}
	})
	return found
}

// StyledElement is an element carrying an inline style attribute.
type StyledElement struct {
	Tag   string
	Style string
}

// StyledElements returns every element with a style attribute.
func (d *Document) StyledElements() []StyledElement {
	var out []StyledElement
	d.walk(func(n *html.Node) {
		if style, ok := Attr(n, "style"); ok {
			out = append(out, StyledElement{Tag: n.Data, Style: style})
		}
	})
	return out
}

// ImagesWithoutAlt returns img elements whose alt is missing or blank.
func (d *Document) ImagesWithoutAlt() []*html.Node {
	var out []*html.Node
	for _, img := range d.Elements("img") {
		if strings.TrimSpace(getAttr(img, "alt")) == "" {
			out = append(out, img)
		}
	}
	return out
}
