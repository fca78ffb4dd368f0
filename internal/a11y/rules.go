package a11y

import (
	"fmt"
	"slices"

	"github.com/nao1215/sitelens/internal/document"
	"github.com/nao1215/sitelens/internal/model"
)

// Contrast thresholds for normal text (WCAG 2 AA).
const (
	ContrastMinimum  = 4.5
	ContrastCritical = 3.0
)

// Rule is a single accessibility check.
type Rule interface {
	// Name returns the rule identifier carried by its issues.
	Name() string

	// Check returns the issues found in doc, in document order.
	Check(doc *document.Document) []model.Issue
}

// DefaultRules returns the rules in execution order.
func DefaultRules() []Rule {
	return []Rule{
		ImgAltRule{},
		FormLabelsRule{},
		LandmarksRule{},
		HeadingsOrderRule{},
		ContrastRule{},
	}
}

// RulesExcept returns the default rules, in order, without those named in
// disabled.
func RulesExcept(disabled []string) []Rule {
	rules := make([]Rule, 0, len(DefaultRules()))
	for _, r := range DefaultRules() {
		if !slices.Contains(disabled, r.Name()) {
			rules = append(rules, r)
		}
	}
	return rules
}

// ImgAltRule flags images with missing or blank alternative text.
type ImgAltRule struct{}

// Name implements Rule.
func (ImgAltRule) Name() string { return model.RuleImgAlt }

// Check implements Rule.
func (ImgAltRule) Check(doc *document.Document) []model.Issue {
	var issues []model.Issue
	for range doc.ImagesWithoutAlt() {
		issues = append(issues, model.Issue{
			Rule:     model.RuleImgAlt,
			Severity: model.SeverityError,
			Message:  "<img> has no alternative text (alt).",
			Selector: "img",
		})
	}
	return issues
}

// FormLabelsRule flags form controls without an associated label.
type FormLabelsRule struct{}

// Name implements Rule.
func (FormLabelsRule) Name() string { return model.RuleFormLabels }

// Check implements Rule.
func (FormLabelsRule) Check(doc *document.Document) []model.Issue {
	var issues []model.Issue
	for _, n := range doc.InputsNeedingLabel() {
		issues = append(issues, model.Issue{
			Rule:     model.RuleFormLabels,
			Severity: model.SeverityError,
			Message:  "Form control has no associated <label>.",
			Selector: n.Data,
		})
	}
	return issues
}

// LandmarksRule warns when a document has no landmark at all.
type LandmarksRule struct{}

// Name implements Rule.
func (LandmarksRule) Name() string { return model.RuleLandmarks }

// Check implements Rule.
func (LandmarksRule) Check(doc *document.Document) []model.Issue {
	if doc.HasLandmark() {
		return nil
	}
	return []model.Issue{{
		Rule:     model.RuleLandmarks,
		Severity: model.SeverityWarn,
		Message:  "No landmarks or semantic roles found (main/nav/header/footer/aside or equivalent roles).",
	}}
}

// HeadingsOrderRule warns on every jump of more than one heading level.
type HeadingsOrderRule struct{}

// Name implements Rule.
func (HeadingsOrderRule) Name() string { return model.RuleHeadingsOrder }

// Check implements Rule.
func (HeadingsOrderRule) Check(doc *document.Document) []model.Issue {
	levels := doc.Headings()
	var issues []model.Issue
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if cur > prev+1 {
			issues = append(issues, model.Issue{
				Rule:     model.RuleHeadingsOrder,
				Severity: model.SeverityWarn,
				Message:  fmt.Sprintf("Heading level jumps from h%d to h%d.", prev, cur),
				Selector: fmt.Sprintf("h%d", cur),
			})
		}
	}
	return issues
}

// ContrastRule checks inline styles that declare both a foreground and a
// background colour.
type ContrastRule struct{}

// Name implements Rule.
func (ContrastRule) Name() string { return model.RuleContrast }

// Check implements Rule.
func (ContrastRule) Check(doc *document.Document) []model.Issue {
	var issues []model.Issue
	for _, el := range doc.StyledElements() {
		fgDecl, bgDecl := document.ParseInlineColors(el.Style)
		if fgDecl == "" || bgDecl == "" {
			continue
		}
		fg, ok := document.ParseColor(fgDecl)
		if !ok {
			continue
		}
		bg, ok := document.ParseColor(bgDecl)
		if !ok {
			continue
		}
		ratio := document.ContrastRatio(fg, bg)
		if ratio >= ContrastMinimum {
			continue
		}
		severity := model.SeverityWarn
		if ratio < ContrastCritical {
			severity = model.SeverityError
		}
		issues = append(issues, model.Issue{
			Rule:     model.RuleContrast,
			Severity: severity,
			Message:  fmt.Sprintf("Insufficient contrast (about %.2f:1, AA requires at least 4.5:1 for normal text).", ratio),
			Selector: el.Tag,
		})
	}
	return issues
}
