package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head><title>Home</title></head>
<body>
<main>
<img src="a.png">
<a href="missing.html">Missing</a>
</main>
</body>
</html>
`

// setupSite creates a site with index.html and a.png and returns its root.
func setupSite(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "site")
	writeFile(t, filepath.Join(root, "index.html"), indexHTML)
	writeFile(t, filepath.Join(root, "a.png"), strings.Repeat("x", 2048))
	return root
}

// setupConfigFile writes content to a config file and returns its path.
// Tests pass it with -c so no user configuration is picked up.
func setupConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".sitelens")
	writeFile(t, path, content)
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// executeRoot runs the root command with args and returns stdout and stderr.
func executeRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
