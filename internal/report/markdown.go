package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/sitelens/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.SiteReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeRanking(md, report)
	w.writeQuickWins(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SiteReport) {
	md.H1("SiteLens Report")
	md.PlainText("")

	title := cases.Title(language.English)
	families := make([]string, 0, len(report.Families))
	for _, f := range report.Families {
		families = append(families, title.String(f))
	}
	familyText := "none"
	if len(families) > 0 {
		familyText = strings.Join(families, ", ")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Families", familyText},
			{"Weights", fmt.Sprintf("a11y=%g, links=%g, performance=%g",
				report.Weights.A11y, report.Weights.Links, report.Weights.Performance)},
			{"Top", strconv.Itoa(report.Top)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.SiteReport) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Files evaluated", strconv.Itoa(report.Summary.FilesEvaluated)},
			{"Broken links", strconv.Itoa(report.Summary.BrokenLinks)},
			{"Over-budget assets", strconv.Itoa(report.Summary.OverBudgetAssets)},
			{"Top quick wins", strconv.Itoa(report.Summary.QuickWinsShown)},
		},
	})
	md.PlainText("")

	switch {
	case report.Summary.BrokenLinks > 0:
		md.Cautionf("%d broken internal link(s) found.", report.Summary.BrokenLinks)
	case report.Summary.OverBudgetAssets > 0:
		md.Warningf("%d asset(s) exceed the size budget.", report.Summary.OverBudgetAssets)
	case len(report.Families) == 0:
		md.Note("No audit results were cached for this target. Run the scan tools first.")
	default:
		md.Tip("No broken links or over-budget assets.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, report *model.SiteReport) {
	md.H2("Ranking")
	md.PlainText("")
	if len(report.Ranking) == 0 {
		md.PlainText("No files evaluated.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Ranking))
	for i, entry := range report.Ranking {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			"`" + entry.File + "`",
			strconv.FormatFloat(entry.Score, 'f', 2, 64),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "File", "Score"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeQuickWins(md *markdown.Markdown, report *model.SiteReport) {
	md.H2("Quick Wins")
	md.PlainText("")
	if len(report.QuickWins) == 0 {
		md.PlainText("No quick wins.")
		md.PlainText("")
		return
	}

	items := make([]string, 0, len(report.QuickWins))
	for _, qw := range report.QuickWins {
		items = append(items, fmt.Sprintf("`%s` %s: %s", qw.Rule, qw.File, qw.Message))
	}
	md.BulletList(items...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [SiteLens](https://github.com/nao1215/sitelens)*")
}
