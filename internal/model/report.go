package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Report parameter bounds.
const (
	DefaultWeight = 1.0
	DefaultTop    = 10
	MinTop        = 1
	MaxTop        = 100
)

// QuickWinRules is the fixed set of rules whose issues are cheap to fix.
var QuickWinRules = []string{RuleImgAlt, RuleFormLabels}

// IsQuickWinRule reports whether rule belongs to QuickWinRules.
func IsQuickWinRule(rule string) bool {
	for _, r := range QuickWinRules {
		if r == rule {
			return true
		}
	}
	return false
}

// Weights scales each family's penalty in the per-file score.
type Weights struct {
	A11y        float64 `json:"a11y"        yaml:"a11y"`
	Links       float64 `json:"links"       yaml:"links"`
	Performance float64 `json:"performance" yaml:"performance"`
}

// DefaultWeights returns weights of 1.0 for every family.
func DefaultWeights() Weights {
	return Weights{A11y: DefaultWeight, Links: DefaultWeight, Performance: DefaultWeight}
}

// Normalized replaces negative or non-finite weights with DefaultWeight.
func (w Weights) Normalized() Weights {
	return Weights{
		A11y:        sanitizeWeight(w.A11y),
		Links:       sanitizeWeight(w.Links),
		Performance: sanitizeWeight(w.Performance),
	}
}

func sanitizeWeight(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return DefaultWeight
	}
	return v
}

// ParseWeights reads weights from an untyped argument, usually a decoded
// JSON object. Missing or unusable members fall back to DefaultWeight.
// It never fails.
func ParseWeights(raw any) Weights {
	w := DefaultWeights()
	m, ok := raw.(map[string]any)
	if !ok {
		return w
	}
	if v, ok := toFloat(m["a11y"]); ok {
		w.A11y = v
	}
	if v, ok := toFloat(m["links"]); ok {
		w.Links = v
	}
	if v, ok := toFloat(m["performance"]); ok {
		w.Performance = v
	}
	return w.Normalized()
}

// ParseTop reads the result bound from an untyped argument. Non-numeric
// values yield DefaultTop; numbers are truncated and clamped to
// [MinTop, MaxTop].
func ParseTop(raw any) int {
	v, ok := toFloat(raw)
	if !ok || math.IsNaN(v) {
		return DefaultTop
	}
	return ClampTop(v)
}

// ClampTop truncates v and clamps it to [MinTop, MaxTop].
func ClampTop(v float64) int {
	if v < MinTop {
		return MinTop
	}
	if v > MaxTop {
		return MaxTop
	}
	return int(math.Trunc(v))
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		// Numeric strings are accepted the way a lenient form field would be.
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// RankingEntry is the score of one file in a report.
type RankingEntry struct {
	File  string  `json:"file"`
	Score float64 `json:"score"`
}

// QuickWin is a cheap-to-fix accessibility issue surfaced for remediation.
type QuickWin struct {
	File    string `json:"file"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ReportSummary carries the headline counts of a report.
type ReportSummary struct {
	FilesEvaluated   int `json:"filesEvaluated"`
	BrokenLinks      int `json:"brokenLinks"`
	OverBudgetAssets int `json:"overBudgetAssets"`
	QuickWinsShown   int `json:"quickWinsShown"`
}

// SiteReport is the consolidated, ranked report for one resolved target.
type SiteReport struct {
	// Target is the resolved path whose cached bucket was read.
	Target string `json:"target"`

	// Families lists the scan families present in the bucket.
	Families []string `json:"families"`

	// Weights are the effective weights after normalization.
	Weights Weights `json:"weights"`

	// Top is the effective bound applied to Ranking and QuickWins.
	Top int `json:"top"`

	Ranking   []RankingEntry `json:"ranking"`
	QuickWins []QuickWin     `json:"quickWins"`
	Summary   ReportSummary  `json:"summary"`

	// Text is the short human-readable summary.
	Text string `json:"text"`
}
