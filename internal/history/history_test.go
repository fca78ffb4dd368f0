package history

import (
	"context"
	"testing"
	"time"
)

// setupTestLog opens a log with a fixed clock.
func setupTestLog(t *testing.T) *Log {
	t.Helper()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	l, err := Open(context.Background(), WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := setupTestLog(t)

	first, err := l.Record(ctx, Entry{Tool: "scan-accessibility", Target: "/site", OK: true, Digest: "abc", Unchanged: true, DurationMS: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" {
		t.Error("expected generated ID")
	}
	if _, err := l.Record(ctx, Entry{Tool: "link-check", OK: false, Code: "AccessDenied"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Tool != "link-check" || entries[1].Tool != "scan-accessibility" {
		t.Errorf("expected newest first, got %s then %s", entries[0].Tool, entries[1].Tool)
	}
	if entries[0].OK || entries[0].Code != "AccessDenied" {
		t.Errorf("failure was not stored: %+v", entries[0])
	}
	got := entries[1]
	if got.ID != first.ID || got.Target != "/site" || got.Digest != "abc" || !got.Unchanged || got.DurationMS != 12 || !got.OK {
		t.Errorf("got %+v, expected %+v", got, first)
	}
	if !got.Timestamp.Equal(first.Timestamp) {
		t.Errorf("timestamp round trip: got %v, expected %v", got.Timestamp, first.Timestamp)
	}
}

func TestRecentLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := setupTestLog(t)
	for i := 0; i < 5; i++ {
		if _, err := l.Record(ctx, Entry{Tool: "ping", OK: true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := l.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, expected 3", len(entries))
	}

	n, err := l.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("got count %d, expected 5", n)
	}
}

func TestLogsAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := setupTestLog(t)
	b := setupTestLog(t)

	if _, err := a.Record(ctx, Entry{Tool: "roots-list", OK: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := b.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("in-memory logs must not share state, got %d entries", n)
	}
}

func TestLastDigest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := setupTestLog(t)

	if _, ok, err := l.LastDigest(ctx, "scan-accessibility", "/site"); err != nil || ok {
		t.Fatalf("expected no digest yet, got ok=%v err=%v", ok, err)
	}

	for _, e := range []Entry{
		{Tool: "scan-accessibility", Target: "/site", OK: true, Digest: "one"},
		{Tool: "scan-accessibility", Target: "/site", OK: true, Digest: "two"},
		{Tool: "scan-accessibility", Target: "/site", OK: false, Code: "Internal"},
		{Tool: "scan-accessibility", Target: "/other", OK: true, Digest: "three"},
	} {
		if _, err := l.Record(ctx, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	digest, ok, err := l.LastDigest(ctx, "scan-accessibility", "/site")
	if err != nil || !ok {
		t.Fatalf("expected digest, got ok=%v err=%v", ok, err)
	}
	if digest != "two" {
		t.Errorf("got %q, expected %q", digest, "two")
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    int
		expected int
	}{
		{0, DefaultLimit},
		{-3, 1},
		{1, 1},
		{120, 120},
		{10000, MaxLimit},
	}
	for _, tc := range testCases {
		if got := ClampLimit(tc.input); got != tc.expected {
			t.Errorf("ClampLimit(%d) = %d, expected %d", tc.input, got, tc.expected)
		}
	}
}

func TestDigest(t *testing.T) {
	t.Parallel()

	a, err := Digest(map[string]any{"file": "/site/index.html", "issues": []string{"img-alt"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Digest(map[string]any{"issues": []string{"img-alt"}, "file": "/site/index.html"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Error("equal values must have equal digests")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}

	c, err := Digest(map[string]any{"file": "/site/about.html"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == c {
		t.Error("different values must have different digests")
	}

	if _, err := Digest(make(chan int)); err == nil {
		t.Error("expected error for unencodable value")
	}
}
