package a11y

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/sitelens/internal/document"
	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
	"github.com/nao1215/sitelens/internal/pipeline"
)

// Scanner runs accessibility rules over HTML files.
type Scanner struct {
	rules       []Rule
	concurrency int
	logger      *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithRules replaces the default rule set.
func WithRules(rules ...Rule) Option {
	return func(s *Scanner) {
		s.rules = rules
	}
}

// WithConcurrency bounds the number of files scanned at once.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner creates a Scanner with the default rules.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		rules:       DefaultRules(),
		concurrency: pipeline.DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanDocument runs every rule against doc.
func (s *Scanner) ScanDocument(doc *document.Document) []model.Issue {
	issues := make([]model.Issue, 0)
	for _, rule := range s.rules {
		issues = append(issues, rule.Check(doc)...)
	}
	return issues
}

// ScanFile reads, parses and checks one file.
func (s *Scanner) ScanFile(path pathguard.ResolvedPath) model.FileResult {
	doc, err := document.ParseFile(path.String())
	if err != nil {
		s.logger.Debug("failed to parse document", "file", path.String(), "error", err)
		return model.NewFileResult(path.String(), []model.Issue{ParseErrorIssue()})
	}
	return model.NewFileResult(path.String(), s.ScanDocument(doc))
}

// ScanFiles checks files concurrently. Results are in input order.
func (s *Scanner) ScanFiles(ctx context.Context, files []pathguard.ResolvedPath) ([]model.FileResult, error) {
	return pipeline.Map(ctx, files, func(_ context.Context, f pathguard.ResolvedPath) model.FileResult {
		return s.ScanFile(f)
	},
		pipeline.WithConcurrency(s.concurrency),
		pipeline.OnPanic(func(i int, p any) model.FileResult {
			s.logger.Error("accessibility check panicked", "file", files[i].String(), "panic", fmt.Sprint(p))
			return model.NewFileResult(files[i].String(), []model.Issue{ParseErrorIssue()})
		}),
	)
}

// ParseErrorIssue is the issue reported for unreadable documents.
func ParseErrorIssue() model.Issue {
	return model.Issue{
		Rule:     model.RuleParseError,
		Severity: model.SeverityError,
		Message:  "Could not parse the HTML document.",
	}
}

// FilterFiles keeps files containing any include substring (all files when
// include is empty) and drops files containing any exclude substring.
func FilterFiles(files []pathguard.ResolvedPath, include, exclude []string) []pathguard.ResolvedPath {
	out := make([]pathguard.ResolvedPath, 0, len(files))
	for _, f := range files {
		if len(include) > 0 && !containsAny(f.String(), include) {
			continue
		}
		if len(exclude) > 0 && containsAny(f.String(), exclude) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
