package model

import "slices"

// Rule identifiers produced by the accessibility scanner.
const (
	RuleImgAlt        = "img-alt"
	RuleFormLabels    = "form-labels"
	RuleLandmarks     = "landmarks"
	RuleHeadingsOrder = "headings-order"
	RuleContrast      = "contrast"
	RuleParseError    = "parse-error"
)

// checkRules are the rules a scan can be told to skip. parse-error is not
// one of them.
var checkRules = []string{RuleImgAlt, RuleFormLabels, RuleLandmarks, RuleHeadingsOrder, RuleContrast}

// IsCheckRule reports whether name identifies a rule that can be disabled.
func IsCheckRule(name string) bool {
	return slices.Contains(checkRules, name)
}

// Issue is a single accessibility defect found in a document.
// Issues are values and are never modified after creation.
type Issue struct {
	// Rule is the identifier of the check that produced the issue.
	Rule string `json:"rule"`

	// Severity is the seriousness of the defect.
	Severity Severity `json:"severity"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Selector identifies the offending element, if known (e.g. "img").
	Selector string `json:"selector,omitempty"`

	// Line is the 1-based source line of the element. The HTML parser does
	// not track source positions, so built-in rules leave it zero and it is
	// omitted from the JSON. Custom rules may set it.
	Line int `json:"line,omitempty"`
}

// SeverityCounts holds the number of issues per severity.
type SeverityCounts struct {
	Info  int `json:"INFO"`
	Warn  int `json:"WARN"`
	Error int `json:"ERROR"`
}

// Add increments the counter for the given severity.
func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityInfo:
		c.Info++
	case SeverityWarn:
		c.Warn++
	case SeverityError:
		c.Error++
	}
}

// Total returns the sum of all counters.
func (c SeverityCounts) Total() int {
	return c.Info + c.Warn + c.Error
}

// FileSummary wraps the per-severity counts of one file.
type FileSummary struct {
	CountsBySeverity SeverityCounts `json:"countsBySeverity"`
}

// FileResult is the accessibility result of one HTML file.
type FileResult struct {
	// File is the absolute, resolved path of the scanned document.
	File string `json:"file"`

	// Issues are listed in rule execution order.
	Issues []Issue `json:"issues"`

	// Summary counts Issues by severity.
	Summary FileSummary `json:"summary"`
}

// NewFileResult builds a FileResult and computes its summary.
// A nil issues slice is stored as an empty one.
func NewFileResult(file string, issues []Issue) FileResult {
	if issues == nil {
		issues = make([]Issue, 0)
	}
	var counts SeverityCounts
	for _, issue := range issues {
		counts.Add(issue.Severity)
	}
	return FileResult{
		File:    file,
		Issues:  issues,
		Summary: FileSummary{CountsBySeverity: counts},
	}
}

// TotalCounts sums severity counts across results.
func TotalCounts(results []FileResult) SeverityCounts {
	var total SeverityCounts
	for _, r := range results {
		total.Info += r.Summary.CountsBySeverity.Info
		total.Warn += r.Summary.CountsBySeverity.Warn
		total.Error += r.Summary.CountsBySeverity.Error
	}
	return total
}
