package assets

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nao1215/sitelens/internal/pathguard"
)

func writeSized(t *testing.T, dir, name string, sizeKB int) pathguard.ResolvedPath {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte("a"), sizeKB*1024), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return pathguard.ResolvedPath(path)
}

// jpegWithExif builds a minimal JPEG whose APP1 segment holds one Make tag.
func jpegWithExif() []byte {
	tiff := []byte{
		'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00, // header, IFD0 at 8
		0x01, 0x00, // one entry
		0x0F, 0x01, 0x02, 0x00, 0x04, 0x00, 0x00, 0x00, 'C', 'a', 'm', 0x00, // Make, ASCII, 4
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	length := len(payload) + 2
	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, byte(length >> 8), byte(length)}
	out = append(out, payload...)
	return append(out, 0xFF, 0xD9)
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := []pathguard.ResolvedPath{
		writeSized(t, dir, "css/site.css", 50),
		writeSized(t, dir, "img/hero.png", 300),
		writeSized(t, dir, "js/app.js", 250),
		writeSized(t, dir, "js/vendor.JS", 10),
		writeSized(t, dir, "LICENSE", 1),
	}

	summary, err := NewAggregator().Aggregate(context.Background(), files, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Summary.TotalKB != 611 {
		t.Errorf("got total %v, expected 611", summary.Summary.TotalKB)
	}
	expectedByType := map[string]float64{".css": 50, ".png": 300, ".js": 260, "misc": 1}
	for k, v := range expectedByType {
		if summary.Summary.ByType[k] != v {
			t.Errorf("byType[%q]: got %v, expected %v", k, summary.Summary.ByType[k], v)
		}
	}

	var heavy []string
	for _, a := range summary.TopHeavy {
		heavy = append(heavy, filepath.Base(a.File))
	}
	if !slices.Equal(heavy, []string{"hero.png", "app.js", "site.css", "vendor.JS", "LICENSE"}) {
		t.Errorf("unexpected topHeavy order %v", heavy)
	}

	if len(summary.OverBudget) != 2 {
		t.Fatalf("expected 2 over-budget assets, got %+v", summary.OverBudget)
	}
	if filepath.Base(summary.OverBudget[0].File) != "hero.png" || summary.OverBudget[0].BudgetKB != 200 {
		t.Errorf("unexpected first over-budget asset %+v", summary.OverBudget[0])
	}
	if len(summary.WithMetadata) != 0 {
		t.Errorf("expected no metadata assets, got %+v", summary.WithMetadata)
	}
}

func TestAggregateTopHeavyBound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []pathguard.ResolvedPath
	for i := 0; i < 25; i++ {
		files = append(files, writeSized(t, dir, filepath.Join("img", string(rune('a'+i))+".png"), i+1))
	}

	summary, err := NewAggregator(WithConcurrency(4)).Aggregate(context.Background(), files, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.TopHeavy) != 20 {
		t.Errorf("got %d topHeavy entries, expected 20", len(summary.TopHeavy))
	}
	if summary.TopHeavy[0].SizeKB != 25 {
		t.Errorf("largest asset should come first, got %+v", summary.TopHeavy[0])
	}
	// Budget violations are counted over every asset, not just the top 20.
	if len(summary.OverBudget) != 23 {
		t.Errorf("got %d over-budget assets, expected 23", len(summary.OverBudget))
	}
}

func TestAggregateDefaultsAndMissingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := []pathguard.ResolvedPath{
		writeSized(t, dir, "big.css", 201),
		pathguard.ResolvedPath(filepath.Join(dir, "vanished.css")),
	}

	summary, err := NewAggregator().Aggregate(context.Background(), files, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.TopHeavy) != 1 {
		t.Errorf("vanished file should be left out, got %+v", summary.TopHeavy)
	}
	if len(summary.OverBudget) != 1 || summary.OverBudget[0].BudgetKB != DefaultBudgetKB {
		t.Errorf("expected default budget to apply, got %+v", summary.OverBudget)
	}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	summary, err := NewAggregator().Aggregate(context.Background(), nil, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Summary.TotalKB != 0 || summary.TopHeavy == nil || summary.OverBudget == nil {
		t.Errorf("unexpected empty summary %+v", summary)
	}
}

func TestAggregateDetectsExif(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(photo, jpegWithExif(), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	plain := writeSized(t, dir, "plain.jpg", 1)

	files := []pathguard.ResolvedPath{pathguard.ResolvedPath(photo), plain}

	summary, err := NewAggregator().Aggregate(context.Background(), files, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.WithMetadata) != 1 {
		t.Fatalf("expected one image with metadata, got %+v", summary.WithMetadata)
	}
	meta := summary.WithMetadata[0]
	if meta.File != photo || meta.Tags < 1 {
		t.Errorf("unexpected metadata entry %+v", meta)
	}
	if !slices.Contains(meta.Sensitive, "camera") {
		t.Errorf("expected camera group, got %v", meta.Sensitive)
	}

	disabled, err := NewAggregator(WithExifInspection(false)).Aggregate(context.Background(), files, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(disabled.WithMetadata) != 0 {
		t.Errorf("inspection disabled, got %+v", disabled.WithMetadata)
	}
}

func TestJPEGExifSegmentSize(t *testing.T) {
	t.Parallel()

	data := jpegWithExif()
	if got := jpegExifSegmentSize(data); got != len(data)-4 {
		t.Errorf("got %d, expected %d", got, len(data)-4)
	}
	if got := jpegExifSegmentSize([]byte{0xFF, 0xD8, 0xFF, 0xD9}); got != 0 {
		t.Errorf("got %d for JPEG without APP1, expected 0", got)
	}
	if got := jpegExifSegmentSize([]byte("not a jpeg")); got != 0 {
		t.Errorf("got %d for non-JPEG, expected 0", got)
	}
}

func TestTypeOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path     string
		expected string
	}{
		{"/site/a.CSS", ".css"},
		{"/site/font.woff2", ".woff2"},
		{"/site/Makefile", "misc"},
	}
	for _, tc := range testCases {
		if got := typeOf(tc.path); got != tc.expected {
			t.Errorf("typeOf(%q) = %q, expected %q", tc.path, got, tc.expected)
		}
	}
}
