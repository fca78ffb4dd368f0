package pathguard

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestIsWithinAnyRoot(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/a/b")
	testCases := []struct {
		name      string
		candidate string
		expected  bool
	}{
		{"root contains itself", "/a/b", true},
		{"direct child", "/a/b/index.html", true},
		{"nested child", "/a/b/c/d/e.css", true},
		{"sibling sharing prefix", "/a/bc", false},
		{"sibling child sharing prefix", "/a/bc/index.html", false},
		{"parent", "/a", false},
		{"unrelated", "/etc/passwd", false},
		{"dot-dot named file stays inside", "/a/b/..foo", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := IsWithinAnyRoot(filepath.FromSlash(tc.candidate), []string{root})
			if got != tc.expected {
				t.Errorf("IsWithinAnyRoot(%q) = %v, expected %v", tc.candidate, got, tc.expected)
			}
		})
	}
}

func TestIsWithinAnyRootMultipleRoots(t *testing.T) {
	t.Parallel()

	roots := []string{filepath.FromSlash("/srv/one"), filepath.FromSlash("/srv/two")}
	if !IsWithinAnyRoot(filepath.FromSlash("/srv/two/x.html"), roots) {
		t.Error("expected candidate under second root to be contained")
	}
	if IsWithinAnyRoot(filepath.FromSlash("/srv/three/x.html"), roots) {
		t.Error("expected candidate outside both roots to be rejected")
	}
	if IsWithinAnyRoot(filepath.FromSlash("/srv/one"), nil) {
		t.Error("no roots must contain nothing")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"redundant separators", "/a//b///c", filepath.FromSlash("/a/b/c")},
		{"dot segments", "/a/./b/../c", filepath.FromSlash("/a/c")},
		{"trailing separator", "/a/b/", filepath.FromSlash("/a/b")},
		{"mixed separators", `/a\b/c`, filepath.FromSlash("/a/b/c")},
		{"relative", "site/index.html", filepath.Join(wd, "site", "index.html")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSplitRoots(t *testing.T) {
	t.Parallel()

	got := SplitRoots(" /srv/a ; ;/srv/b;/srv/a/;")
	expected := []string{filepath.FromSlash("/srv/a"), filepath.FromSlash("/srv/b")}
	if !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}

	if got := SplitRoots(""); len(got) != 0 {
		t.Errorf("expected no roots, got %v", got)
	}
}
