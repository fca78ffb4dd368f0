package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nao1215/sitelens/internal/cache"
	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
)

// Penalty points per finding, before weighting.
const (
	ErrorPenalty       = 5
	WarnPenalty        = 2
	MissingLinkPenalty = 3
	OverBudgetPenalty  = 4
)

// Resolver resolves report targets. *pathguard.Resolver implements it.
type Resolver interface {
	HasRoots() bool
	Resolve(input string) (pathguard.ResolvedPath, error)
}

// Aggregator builds reports from the result cache.
type Aggregator struct {
	resolver Resolver
	cache    cache.Reader
}

// NewAggregator creates an Aggregator reading from store.
func NewAggregator(resolver Resolver, store cache.Reader) *Aggregator {
	return &Aggregator{resolver: resolver, cache: store}
}

// Generate resolves input and builds the report for its cached bucket.
// A target with no cached scans yields an empty report, not an error.
func (a *Aggregator) Generate(input string, weights model.Weights, top int) (*model.SiteReport, error) {
	if !a.resolver.HasRoots() {
		return nil, model.ErrNoRootsConfigured
	}
	target, err := a.resolver.Resolve(input)
	if err != nil {
		return nil, err
	}
	bucket, _ := a.cache.Get(target)
	return Build(target, bucket, weights, top), nil
}

// Score computes the score of one file from its finding counts.
func Score(errorCount, warnCount, missingLinks, overBudget int, w model.Weights) float64 {
	penalty := float64(errorCount*ErrorPenalty+warnCount*WarnPenalty)*w.A11y +
		float64(missingLinks*MissingLinkPenalty)*w.Links +
		float64(overBudget*OverBudgetPenalty)*w.Performance
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*100) / 100
}

type fileCounts struct {
	errors, warns, missing, overBudget int
}

// Build computes the report for bucket. Weights are normalized and top is
// clamped to [1, 100].
func Build(target pathguard.ResolvedPath, bucket model.ScanBucket, weights model.Weights, top int) *model.SiteReport {
	weights = weights.Normalized()
	top = model.ClampTop(float64(top))

	universe := make([]string, 0)
	counts := make(map[string]*fileCounts)
	visit := func(file string) *fileCounts {
		c, ok := counts[file]
		if !ok {
			c = &fileCounts{}
			counts[file] = c
			universe = append(universe, file)
		}
		return c
	}

	for _, r := range bucket.Accessibility {
		c := visit(r.File)
		c.errors += r.Summary.CountsBySeverity.Error
		c.warns += r.Summary.CountsBySeverity.Warn
	}
	for _, l := range bucket.Links {
		c := visit(l.File)
		if l.Status == model.LinkMissing {
			c.missing++
		}
	}
	overBudget := 0
	if bucket.Assets != nil {
		for _, h := range bucket.Assets.TopHeavy {
			visit(h.File)
		}
		for _, o := range bucket.Assets.OverBudget {
			visit(o.File).overBudget++
			overBudget++
		}
	}

	ranking := make([]model.RankingEntry, 0, len(universe))
	for _, f := range universe {
		c := counts[f]
		ranking = append(ranking, model.RankingEntry{
			File:  f,
			Score: Score(c.errors, c.warns, c.missing, c.overBudget, weights),
		})
	}
	// Stable: equal scores keep universe order.
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].Score > ranking[j].Score })

	quickWins := make([]model.QuickWin, 0)
	for _, r := range bucket.Accessibility {
		for _, issue := range r.Issues {
			if model.IsQuickWinRule(issue.Rule) {
				quickWins = append(quickWins, model.QuickWin{File: r.File, Rule: issue.Rule, Message: issue.Message})
			}
		}
	}

	report := &model.SiteReport{
		Target:    target.String(),
		Families:  bucket.Families(),
		Weights:   weights,
		Top:       top,
		Ranking:   ranking[:min(len(ranking), top)],
		QuickWins: quickWins[:min(len(quickWins), top)],
		Summary: model.ReportSummary{
			FilesEvaluated:   len(universe),
			BrokenLinks:      model.CountMissing(bucket.Links),
			OverBudgetAssets: overBudget,
			QuickWinsShown:   min(len(quickWins), top),
		},
	}
	report.Text = SummaryText(report.Summary)
	if bucket.IsEmpty() {
		report.Text += NoScansHint
	}
	return report
}

// NoScansHint is appended to the text of a report whose target has no
// cached scans.
const NoScansHint = "No scans are cached for this target. Run link-check, asset-budget or scan-accessibility on it first.\n"

// SummaryText renders the headline counts.
func SummaryText(s model.ReportSummary) string {
	var b strings.Builder
	b.WriteString("SiteLens consolidated report\n")
	fmt.Fprintf(&b, "- Files evaluated: %d\n", s.FilesEvaluated)
	fmt.Fprintf(&b, "- Broken links: %d\n", s.BrokenLinks)
	fmt.Fprintf(&b, "- Over-budget assets: %d\n", s.OverBudgetAssets)
	fmt.Fprintf(&b, "- Top quick wins: %d\n", s.QuickWinsShown)
	return b.String()
}
