package main

import (
	"strings"
	"testing"
)

func TestReadBuildInfo(t *testing.T) {
	t.Parallel()

	info := readBuildInfo()
	// Every field falls back to a placeholder, so none is empty.
	if info.Version == "" || info.Commit == "" || info.Date == "" || info.GoVersion == "" {
		t.Errorf("readBuildInfo() returned an empty field: %+v", info)
	}
	if getVersion() != info.Version {
		t.Errorf("got %q, expected %q", getVersion(), info.Version)
	}
}

func TestShortRevision(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		rev  string
		want string
	}{
		{name: "long revision is cut", rev: "0123456789abcdef", want: "0123456"},
		{name: "short revision is kept", rev: "abc", want: "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := shortRevision(tc.rev); got != tc.want {
				t.Errorf("got %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints full info", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, "", "version")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"sitelens version", "commit:", "built:", "go:"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got %q", want, stdout)
			}
		}
	})

	t.Run("short prints the version only", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, "", "version", "--short")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(stdout); got != getVersion() {
			t.Errorf("got %q, expected %q", got, getVersion())
		}
	})
}
