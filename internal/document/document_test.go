package document

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return doc
}

func TestCollectLinks(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><head>
<link rel="stylesheet" href="style.css">
<script src=" app.js "></script>
</head><body>
<img src="logo.png">
<a href="about.html">About</a>
<a href="">empty</a>
<a>no href</a>
<video src="intro.mp4"><source src="intro.webm"></video>
<audio src="theme.ogg"></audio>
<a href="#top">top</a>
</body></html>`)

	got := doc.CollectLinks()
	expected := []Link{
		{Tag: "a", Attr: "href", Value: "about.html"},
		{Tag: "a", Attr: "href", Value: "#top"},
		{Tag: "link", Attr: "href", Value: "style.css"},
		{Tag: "script", Attr: "src", Value: "app.js"},
		{Tag: "img", Attr: "src", Value: "logo.png"},
		{Tag: "source", Attr: "src", Value: "intro.webm"},
		{Tag: "video", Attr: "src", Value: "intro.mp4"},
		{Tag: "audio", Attr: "src", Value: "theme.ogg"},
	}
	if !slices.Equal(got, expected) {
		t.Errorf("got %+v\nexpected %+v", got, expected)
	}
}

func TestInputsNeedingLabel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		body     string
		expected []string
	}{
		{"label for id", `<label for="email">Email</label><input type="email" id="email">`, nil},
		{"wrapping label", `<label>Name <input type="text"></label>`, nil},
		{"unlabelled text", `<input type="text" id="q">`, []string{"input"}},
		{"missing type is text", `<input name="q">`, []string{"input"}},
		{"hidden is ignored", `<input type="hidden" name="csrf">`, nil},
		{"submit is ignored", `<input type="submit">`, nil},
		{"select and textarea", `<select></select><textarea></textarea>`, []string{"select", "textarea"}},
		{"label for other id", `<label for="a">A</label><input type="checkbox" id="b">`, []string{"input"}},
		{"upper-case type", `<input type="RADIO">`, []string{"input"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := mustParse(t, "<html><body>"+tc.body+"</body></html>")
			var got []string
			for _, n := range doc.InputsNeedingLabel() {
				got = append(got, n.Data)
			}
			if !slices.Equal(got, tc.expected) {
				t.Errorf("got %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestHeadings(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<h1>a</h1><section><h3>b</h3></section><h2>c</h2><header>x</header><h6>d</h6>`)
	expected := []int{1, 3, 2, 6}
	if got := doc.Headings(); !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestHasLandmark(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		body     string
		expected bool
	}{
		{"main element", `<main>hi</main>`, true},
		{"footer element", `<footer>hi</footer>`, true},
		{"navigation role", `<div role=" Navigation ">x</div>`, true},
		{"unrelated role", `<div role="button">x</div>`, false},
		{"none", `<div><p>plain</p></div>`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := mustParse(t, "<html><body>"+tc.body+"</body></html>")
			if got := doc.HasLandmark(); got != tc.expected {
				t.Errorf("got %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestImagesWithoutAlt(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<img src="a.png"><img src="b.png" alt=""><img src="c.png" alt="  "><img src="d.png" alt="logo">`)
	if got := len(doc.ImagesWithoutAlt()); got != 3 {
		t.Errorf("got %d, expected 3", got)
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(`<p style="color:#000">x</p>`), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Path != path {
		t.Errorf("got path %q, expected %q", doc.Path, path)
	}
	if got := doc.StyledElements(); len(got) != 1 || got[0].Tag != "p" {
		t.Errorf("unexpected styled elements: %+v", got)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.html")); err == nil {
		t.Error("expected error for missing file")
	}
}
