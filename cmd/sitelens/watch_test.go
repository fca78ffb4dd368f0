package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/sitelens/internal/log"
)

func waitRun(t *testing.T, runs <-chan struct{}, what string) {
	t.Helper()

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestWatchAudit(t *testing.T) {
	t.Parallel()

	root := setupSite(t)
	runs := make(chan struct{}, 16)
	run := func() error {
		runs <- struct{}{}
		return errors.New("failures are logged, not returned")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchAudit(ctx, root, "", log.Discard(), run)
	}()

	waitRun(t, runs, "the initial run")

	writeFile(t, filepath.Join(root, "about.html"), "<html></html>")
	waitRun(t, runs, "the run after a change")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchAudit did not stop after cancel")
	}
}

func TestWatchAudit_MissingDir(t *testing.T) {
	t.Parallel()

	called := false
	err := watchAudit(context.Background(), filepath.Join(t.TempDir(), "missing"), "", log.Discard(),
		func() error {
			called = true
			return nil
		})
	if err == nil {
		t.Error("expected error for a missing directory")
	}
	if called {
		t.Error("run should not be called when the watch fails")
	}
}

func TestIsHiddenBelow(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(string(filepath.Separator), "srv", "site")
	testCases := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular file", path: filepath.Join(dir, "index.html"), want: false},
		{name: "nested file", path: filepath.Join(dir, "docs", "a.html"), want: false},
		{name: "hidden file", path: filepath.Join(dir, ".DS_Store"), want: true},
		{name: "file in hidden dir", path: filepath.Join(dir, ".git", "HEAD"), want: true},
		{name: "dir itself", path: dir, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isHiddenBelow(dir, tc.path); got != tc.want {
				t.Errorf("got %v, expected %v", got, tc.want)
			}
		})
	}
}
