package linkcheck

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nao1215/sitelens/internal/document"
	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
)

func write(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

func statusByLink(results []model.LinkResult) map[string]model.LinkResult {
	m := make(map[string]model.LinkResult, len(results))
	for _, r := range results {
		m[r.Link] = r
	}
	return m
}

func TestCheckFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "about.html", "")
	write(t, root, "css/site.css", "")
	write(t, root, "img/logo.png", "")
	write(t, root, "blog/index.html", "")
	write(t, root, "empty/.keep", "")
	page := write(t, root, "docs/page.html", `<html><head>
<link rel="stylesheet" href="/css/site.css">
</head><body>
<a href="../about.html">About</a>
<a href="../about.html?ref=nav#team">About team</a>
<a href="missing.html">Missing</a>
<a href="https://example.com/">Example</a>
<a href="//cdn.example.com/lib.js">CDN</a>
<a href="mailto:someone@example.com">Mail</a>
<a href="tel:+100">Call</a>
<a href="#section">Section</a>
<a href="?page=2">Next</a>
<a href="../../../../etc/passwd">Escape</a>
<a href="/blog/">Blog</a>
<a href="/empty/">Empty</a>
<a href="../img/logo%2Epng">Encoded</a>
<img src="data:image/png;base64,AAAA">
<img src="../img/logo.png" alt="logo">
</body></html>`)

	r := pathguard.NewResolver([]string{root})
	results, err := NewChecker(r).CheckFiles(context.Background(), []pathguard.ResolvedPath{pathguard.ResolvedPath(page)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := statusByLink(results)

	testCases := []struct {
		link     string
		status   model.LinkStatus
		external bool
	}{
		{"/css/site.css", model.LinkOK, false},
		{"../about.html", model.LinkOK, false},
		{"../about.html?ref=nav#team", model.LinkOK, false},
		{"missing.html", model.LinkMissing, false},
		{"https://example.com/", model.LinkSkipped, true},
		{"//cdn.example.com/lib.js", model.LinkSkipped, true},
		{"mailto:someone@example.com", model.LinkSkipped, true},
		{"tel:+100", model.LinkSkipped, true},
		{"#section", model.LinkOK, false},
		{"?page=2", model.LinkOK, false},
		{"../../../../etc/passwd", model.LinkMissing, false},
		{"/blog/", model.LinkOK, false},
		{"/empty/", model.LinkMissing, false},
		{"../img/logo%2Epng", model.LinkOK, false},
		{"data:image/png;base64,AAAA", model.LinkSkipped, true},
		{"../img/logo.png", model.LinkOK, false},
	}

	if len(results) != len(testCases) {
		t.Fatalf("got %d results, expected %d: %+v", len(results), len(testCases), results)
	}

	for _, tc := range testCases {
		t.Run(tc.link, func(t *testing.T) {
			t.Parallel()
			res, ok := got[tc.link]
			if !ok {
				t.Fatalf("link %q not reported", tc.link)
			}
			if res.Status != tc.status {
				t.Errorf("got status %q, expected %q", res.Status, tc.status)
			}
			if res.External != tc.external {
				t.Errorf("got external %v, expected %v", res.External, tc.external)
			}
			if res.OK != (tc.status == model.LinkOK) {
				t.Errorf("ok flag %v does not match status %q", res.OK, res.Status)
			}
			if res.File != page {
				t.Errorf("got file %q, expected %q", res.File, page)
			}
		})
	}
}

func TestCheckOrderAnchorsFirst(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	page := write(t, root, "index.html", `<img src="a.png"><a href="b.html">b</a><script src="c.js"></script><a href="d.html">d</a>`)

	doc, err := document.ParseFile(page)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	results := NewChecker(pathguard.NewResolver([]string{root})).CheckDocument(pathguard.ResolvedPath(page), doc)

	var links []string
	for _, r := range results {
		links = append(links, r.Link)
	}
	if strings.Join(links, ",") != "b.html,d.html,c.js,a.png" {
		t.Errorf("unexpected order %v", links)
	}
}

func TestWithExtensions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "style.css", "")
	page := write(t, root, "index.html", `<a href="gone.html">x</a><link href="style.css"><a href="file.pdf">pdf</a>`)

	c := NewChecker(pathguard.NewResolver([]string{root}), WithExtensions([]string{"HTML", ".css", " "}))
	results, err := c.CheckFiles(context.Background(), []pathguard.ResolvedPath{pathguard.ResolvedPath(page)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := statusByLink(results)
	if got["gone.html"].Status != model.LinkMissing {
		t.Errorf("gone.html: got %q", got["gone.html"].Status)
	}
	if got["style.css"].Status != model.LinkOK {
		t.Errorf("style.css: got %q", got["style.css"].Status)
	}
	if got["file.pdf"].Status != model.LinkSkipped || got["file.pdf"].External {
		t.Errorf("file.pdf: got %+v", got["file.pdf"])
	}
}

func TestEscapingLinkIsNeverStatted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	page := write(t, root, "index.html", `<a href="../../outside/secret.html">x</a>`)
	doc, err := document.ParseFile(page)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	var calls atomic.Int32
	c := NewChecker(pathguard.NewResolver([]string{root}))
	c.stat = func(name string) (fs.FileInfo, error) {
		calls.Add(1)
		return os.Stat(name)
	}

	results := c.CheckDocument(pathguard.ResolvedPath(page), doc)
	if len(results) != 1 || results[0].Status != model.LinkMissing {
		t.Fatalf("unexpected results %+v", results)
	}
	if calls.Load() != 0 {
		t.Errorf("stat called %d times for an escaping link", calls.Load())
	}
}

func TestCheckFilesSkipsUnreadable(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	page := write(t, root, "index.html", `<a href="missing.html">x</a>`)
	files := []pathguard.ResolvedPath{
		pathguard.ResolvedPath(filepath.Join(root, "gone.html")),
		pathguard.ResolvedPath(page),
	}

	results, err := NewChecker(pathguard.NewResolver([]string{root})).CheckFiles(context.Background(), files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Link != "missing.html" {
		t.Errorf("unexpected results %+v", results)
	}
}
