package assets

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
	"github.com/nao1215/sitelens/internal/pipeline"
)

// DefaultBudgetKB is the per-file budget used when none is given.
const DefaultBudgetKB = 200.0

// miscType buckets files without an extension.
const miscType = "misc"

// Aggregator sizes asset files.
type Aggregator struct {
	concurrency int
	inspectExif bool
	logger      *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds the number of files inspected at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithExifInspection enables or disables EXIF detection.
func WithExifInspection(enabled bool) Option {
	return func(a *Aggregator) {
		a.inspectExif = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator creates an Aggregator with EXIF detection enabled.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		concurrency: pipeline.DefaultConcurrency,
		inspectExif: true,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// measured is the per-file result of the fan-out.
type measured struct {
	file    string
	sizeKB  float64
	ok      bool
	exif    exifInfo
	hasExif bool
}

// Aggregate sizes files and compares each with budgetKB. A negative or
// non-finite budget is replaced by DefaultBudgetKB. Files that vanish
// between listing and sizing are left out.
func (a *Aggregator) Aggregate(ctx context.Context, files []pathguard.ResolvedPath, budgetKB float64) (*model.AssetSummary, error) {
	if budgetKB < 0 || math.IsNaN(budgetKB) || math.IsInf(budgetKB, 0) {
		budgetKB = DefaultBudgetKB
	}

	sizes, err := pipeline.Map(ctx, files, a.measure,
		pipeline.WithConcurrency(a.concurrency),
		pipeline.OnPanic(func(i int, p any) measured {
			a.logger.Error("asset inspection panicked", "file", files[i].String(), "panic", fmt.Sprint(p))
			return measured{file: files[i].String()}
		}),
	)
	if err != nil {
		return nil, err
	}

	summary := &model.AssetSummary{
		Summary:      model.AssetTotals{ByType: make(map[string]float64)},
		TopHeavy:     make([]model.AssetSize, 0),
		OverBudget:   make([]model.OverBudgetAsset, 0),
		WithMetadata: make([]model.MetadataAsset, 0),
	}

	all := make([]model.AssetSize, 0, len(sizes))
	for _, m := range sizes {
		if !m.ok {
			continue
		}
		summary.Summary.TotalKB += m.sizeKB
		summary.Summary.ByType[typeOf(m.file)] += m.sizeKB
		all = append(all, model.AssetSize{File: m.file, SizeKB: m.sizeKB})
		if m.hasExif {
			summary.WithMetadata = append(summary.WithMetadata, model.MetadataAsset{
				File:      m.file,
				Tags:      m.exif.tags,
				ExifKB:    m.exif.sizeKB,
				Sensitive: m.exif.sensitive,
			})
		}
	}

	summary.Summary.TotalKB = round2(summary.Summary.TotalKB)
	for k, v := range summary.Summary.ByType {
		summary.Summary.ByType[k] = round2(v)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].SizeKB > all[j].SizeKB })
	summary.TopHeavy = append(summary.TopHeavy, all[:min(len(all), model.MaxTopHeavy)]...)
	for _, s := range all {
		if s.SizeKB > budgetKB {
			summary.OverBudget = append(summary.OverBudget, model.OverBudgetAsset{
				File:     s.File,
				SizeKB:   s.SizeKB,
				BudgetKB: budgetKB,
			})
		}
	}

	return summary, nil
}

func (a *Aggregator) measure(_ context.Context, file pathguard.ResolvedPath) measured {
	m := measured{file: file.String()}
	info, err := os.Stat(m.file)
	if err != nil || !info.Mode().IsRegular() {
		a.logger.Debug("skipping asset", "file", m.file, "error", err)
		return m
	}
	m.ok = true
	m.sizeKB = round2(float64(info.Size()) / 1024)
	if a.inspectExif && hasExifExtension(m.file) {
		m.exif, m.hasExif = inspectExif(m.file)
	}
	return m
}

// typeOf returns the lower-case extension of path, or "misc".
func typeOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return miscType
	}
	return ext
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
