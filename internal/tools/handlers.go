package tools

import (
	"context"

	"github.com/nao1215/sitelens/internal/a11y"
	"github.com/nao1215/sitelens/internal/history"
	"github.com/nao1215/sitelens/internal/linkcheck"
	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
	"github.com/nao1215/sitelens/internal/report"
	"github.com/nao1215/sitelens/internal/sitefs"
)

// resolve checks for configured roots before resolving, so every
// path-dependent tool fails the same way on an unconfigured server.
func (r *Registry) resolve(input string) (pathguard.ResolvedPath, error) {
	if !r.deps.Resolver.HasRoots() {
		return "", model.ErrNoRootsConfigured
	}
	return r.deps.Resolver.Resolve(input)
}

func (r *Registry) rootsList(_ context.Context, _ map[string]any) (outcome, error) {
	return outcome{result: r.deps.Resolver.Roots()}, nil
}

func (r *Registry) sitemap(_ context.Context, args map[string]any) (outcome, error) {
	target, err := r.resolve(argString(args, "path"))
	if err != nil {
		return outcome{}, err
	}

	opts := sitefs.TreeOptions{
		IncludeHTMLOnly: argBool(args, "includeHtmlOnly"),
		MaxDepth:        sitefs.MaxDepth,
	}
	if d, ok := argNumber(args, "maxDepth"); ok {
		opts.MaxDepth = sitefs.ClampDepth(clampInt(d))
	}

	tree, err := sitefs.Tree(target, opts)
	if err != nil {
		return outcome{}, err
	}
	return outcome{result: tree, text: tree.String(), target: target}, nil
}

func (r *Registry) linkCheck(ctx context.Context, args map[string]any) (outcome, error) {
	base, err := r.resolve(argString(args, "path"))
	if err != nil {
		return outcome{}, err
	}

	source := base
	if entryArg := argString(args, "entry"); entryArg != "" {
		entry, err := r.resolve(entryArg)
		if err != nil {
			return outcome{}, err
		}
		if !pathguard.IsWithinAnyRoot(entry.String(), []string{base.String()}) {
			return outcome{}, model.NewError(model.CodeInvalidArgument, "entry %q must lie inside path %q", entryArg, argString(args, "path"))
		}
		source = entry
	}

	files, err := sitefs.HTMLFiles(r.deps.Resolver, source)
	if err != nil {
		return outcome{}, err
	}

	checker := linkcheck.NewChecker(r.deps.Resolver,
		linkcheck.WithExtensions(argStrings(args, "extensions")),
		linkcheck.WithLogger(r.logger),
	)
	results, err := checker.CheckFiles(ctx, files)
	if err != nil {
		return outcome{}, model.WrapError(model.CodeInternal, err, "link check was interrupted")
	}

	r.logger.Debug("link check finished", "target", base.String(), "links", len(results), "missing", model.CountMissing(results))
	r.deps.Cache.Put(base, model.ScanBucket{Links: results})
	return outcome{result: results, target: base}, nil
}

func (r *Registry) assetBudget(ctx context.Context, args map[string]any) (outcome, error) {
	target, err := r.resolve(argString(args, "path"))
	if err != nil {
		return outcome{}, err
	}

	budget := r.deps.BudgetKB
	if b, ok := argNumber(args, "budgetKB"); ok {
		budget = b
	}

	files, err := sitefs.Assets(r.deps.Resolver, target, argStrings(args, "patterns"))
	if err != nil {
		return outcome{}, err
	}
	summary, err := r.sizer.Aggregate(ctx, files, budget)
	if err != nil {
		return outcome{}, model.WrapError(model.CodeInternal, err, "asset sizing was interrupted")
	}

	r.deps.Cache.Put(target, model.ScanBucket{Assets: summary})
	return outcome{result: summary, target: target}, nil
}

func (r *Registry) scanAccessibility(ctx context.Context, args map[string]any) (outcome, error) {
	target, err := r.resolve(argString(args, "path"))
	if err != nil {
		return outcome{}, err
	}

	files, err := sitefs.HTMLFiles(r.deps.Resolver, target)
	if err != nil {
		return outcome{}, err
	}
	files = a11y.FilterFiles(files, argStrings(args, "include"), argStrings(args, "exclude"))

	results, err := r.scanner.ScanFiles(ctx, files)
	if err != nil {
		return outcome{}, model.WrapError(model.CodeInternal, err, "accessibility scan was interrupted")
	}

	totals := model.TotalCounts(results)
	r.logger.Debug("accessibility scan finished", "target", target.String(), "files", len(results),
		"errors", totals.Error, "warnings", totals.Warn, "info", totals.Info)
	r.deps.Cache.Put(target, model.ScanBucket{Accessibility: results})
	return outcome{result: results, target: target}, nil
}

func (r *Registry) report(_ context.Context, args map[string]any) (outcome, error) {
	format, err := report.ParseFormat(argString(args, "format"))
	if err != nil {
		return outcome{}, err
	}

	weights := r.deps.Weights
	if raw, ok := args["weights"]; ok {
		weights = model.ParseWeights(raw)
	}
	top := r.deps.Top
	if raw, ok := args["top"]; ok {
		top = model.ParseTop(raw)
	}

	rep, err := r.reporter.Generate(argString(args, "path"), weights, top)
	if err != nil {
		return outcome{}, err
	}
	if len(rep.Families) == 0 {
		r.logger.Debug("no cached scans for report target", "target", rep.Target, "cached", r.deps.Cache.Keys())
	}

	text := rep.Text
	if format != report.FormatText {
		text, err = report.Render(rep, format)
		if err != nil {
			return outcome{}, model.WrapError(model.CodeInternal, err, "failed to render report")
		}
	}
	return outcome{result: rep, text: text, target: pathguard.ResolvedPath(rep.Target)}, nil
}

func (r *Registry) history(ctx context.Context, args map[string]any) (outcome, error) {
	if r.deps.History == nil {
		return outcome{result: []history.Entry{}}, nil
	}

	limit := history.DefaultLimit
	if n, ok := argNumber(args, "limit"); ok {
		limit = history.ClampLimit(max(1, clampInt(n)))
	}

	entries, err := r.deps.History.Recent(ctx, limit)
	if err != nil {
		return outcome{}, model.WrapError(model.CodeInternal, err, "failed to read history")
	}
	return outcome{result: entries}, nil
}

// clampInt truncates f towards zero, saturating at the int32 range.
func clampInt(f float64) int {
	const limit = 1 << 31
	switch {
	case f >= limit:
		return limit - 1
	case f <= -limit:
		return -limit
	default:
		return int(f)
	}
}
