package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nao1215/sitelens/internal/model"
)

// Score bands used for coloring.
const (
	scoreWarn  = 90.0
	scorePoor  = 70.0
	ruleLength = 70
)

// SimpleWriter outputs human-readable text reports. Colors follow
// color.NoColor, so piped output stays plain.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty sections are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.SiteReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeRanking(&sb, report)
	w.writeQuickWins(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SiteReport) {
	sb.WriteString(strings.Repeat("=", ruleLength))
	sb.WriteString("\n")
	sb.WriteString("                      SITELENS CONSOLIDATED REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleLength))
	sb.WriteString("\n\n")

	families := "none"
	if len(report.Families) > 0 {
		families = strings.Join(report.Families, ", ")
	}
	fmt.Fprintf(sb, "Target:    %s\n", report.Target)
	fmt.Fprintf(sb, "Families:  %s\n", families)
	fmt.Fprintf(sb, "Weights:   a11y=%g links=%g performance=%g\n",
		report.Weights.A11y, report.Weights.Links, report.Weights.Performance)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.SiteReport) {
	writeSection(sb, "SUMMARY")
	fmt.Fprintf(sb, "  Files evaluated:    %d\n", report.Summary.FilesEvaluated)
	fmt.Fprintf(sb, "  Broken links:       %s\n", countString(report.Summary.BrokenLinks, color.RedString))
	fmt.Fprintf(sb, "  Over-budget assets: %s\n", countString(report.Summary.OverBudgetAssets, color.YellowString))
	fmt.Fprintf(sb, "  Top quick wins:     %d\n", report.Summary.QuickWinsShown)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRanking(sb *strings.Builder, report *model.SiteReport) {
	if len(report.Ranking) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "RANKING (lowest score first)")
	if len(report.Ranking) == 0 {
		sb.WriteString("  No files evaluated\n\n")
		return
	}
	for i, entry := range report.Ranking {
		fmt.Fprintf(sb, "  %3d. %s  %s\n", i+1, scoreString(entry.Score), entry.File)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeQuickWins(sb *strings.Builder, report *model.SiteReport) {
	if len(report.QuickWins) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "QUICK WINS")
	if len(report.QuickWins) == 0 {
		sb.WriteString("  No quick wins\n\n")
		return
	}
	for _, qw := range report.QuickWins {
		fmt.Fprintf(sb, "  * [%s] %s\n", qw.Rule, qw.File)
		fmt.Fprintf(sb, "    %s\n", qw.Message)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleLength))
	sb.WriteString("\n")
	sb.WriteString("Report generated by SiteLens\n")
	sb.WriteString(strings.Repeat("=", ruleLength))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleLength))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleLength))
	sb.WriteString("\n\n")
}

// scoreString formats a score padded to a fixed width before coloring so
// columns line up with and without ANSI codes.
func scoreString(score float64) string {
	s := fmt.Sprintf("%6.2f", score)
	switch {
	case score < scorePoor:
		return color.RedString(s)
	case score < scoreWarn:
		return color.YellowString(s)
	default:
		return s
	}
}

func countString(n int, paint func(format string, a ...interface{}) string) string {
	if n == 0 {
		return "0"
	}
	return paint("%d", n)
}
