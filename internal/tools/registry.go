package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/nao1215/sitelens/internal/a11y"
	"github.com/nao1215/sitelens/internal/assets"
	"github.com/nao1215/sitelens/internal/cache"
	"github.com/nao1215/sitelens/internal/history"
	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
	"github.com/nao1215/sitelens/internal/pipeline"
	"github.com/nao1215/sitelens/internal/scoring"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Tool names.
const (
	NameRootsList         = "roots-list"
	NameSitemap           = "sitemap"
	NameLinkCheck         = "link-check"
	NameAssetBudget       = "asset-budget"
	NameScanAccessibility = "scan-accessibility"
	NameReport            = "report"
	NameHistory           = "history"
)

// ErrUnknownTool is returned by Call when no tool has the requested name.
var ErrUnknownTool = errors.New("unknown tool")

// Deps are the collaborators shared by every tool.
type Deps struct {
	// Resolver is required.
	Resolver *pathguard.Resolver

	// Cache defaults to a fresh store.
	Cache *cache.Store

	// History is optional. Without it the history tool returns an empty list.
	History *history.Log

	Logger *slog.Logger

	// Concurrency bounds per-file fan-out (default 8).
	Concurrency int

	// BudgetKB is the asset budget used when a call gives none (default 200).
	BudgetKB float64

	// Weights and Top are the report defaults for omitted arguments.
	Weights model.Weights
	Top     int

	// SkipExif turns off EXIF detection in asset-budget.
	SkipExif bool

	// DisabledRules are accessibility rules scan-accessibility skips.
	DisabledRules []string
}

// Tool is one entry of the routing table.
type Tool struct {
	Name        string
	Description string

	// InputSchema is the JSON Schema advertised to clients.
	InputSchema json.RawMessage

	schema  *jsonschema.Schema
	handler handlerFunc
}

// outcome is what a handler returns on success.
type outcome struct {
	result any
	text   string

	// target is the resolved path the tool ran against, if any.
	target pathguard.ResolvedPath
}

type handlerFunc func(ctx context.Context, args map[string]any) (outcome, error)

// CallResult is the structured result of one tool call. Failures are
// results too: IsError is set and Structured holds {"error": {...}}.
type CallResult struct {
	// Structured is {"result": ...} or {"error": {"code", "message"}}.
	Structured map[string]any

	// Text is the human-readable rendering of the result.
	Text string

	IsError bool

	// Err is the failure when IsError is set.
	Err error
}

// Registry is the routing table. It is safe for concurrent use.
type Registry struct {
	deps      Deps
	scanner   *a11y.Scanner
	sizer     *assets.Aggregator
	reporter  *scoring.Aggregator
	tools     []*Tool
	byName    map[string]*Tool
	logger    *slog.Logger
	clockFunc func() time.Time
}

// New builds the routing table. Schemas are compiled here, so a broken
// schema fails at startup rather than on first use.
func New(deps Deps) (*Registry, error) {
	if deps.Resolver == nil {
		return nil, errors.New("tools: resolver is required")
	}
	if deps.Cache == nil {
		deps.Cache = cache.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Concurrency < 1 {
		deps.Concurrency = pipeline.DefaultConcurrency
	}
	if deps.BudgetKB <= 0 {
		deps.BudgetKB = assets.DefaultBudgetKB
	}
	if deps.Weights == (model.Weights{}) {
		deps.Weights = model.DefaultWeights()
	}
	deps.Weights = deps.Weights.Normalized()
	if deps.Top == 0 {
		deps.Top = model.DefaultTop
	}
	deps.Top = model.ClampTop(float64(deps.Top))

	scannerOpts := []a11y.Option{
		a11y.WithConcurrency(deps.Concurrency),
		a11y.WithLogger(deps.Logger),
	}
	if len(deps.DisabledRules) > 0 {
		for _, name := range deps.DisabledRules {
			if !model.IsCheckRule(name) {
				return nil, fmt.Errorf("tools: unknown accessibility rule %q", name)
			}
		}
		scannerOpts = append(scannerOpts, a11y.WithRules(a11y.RulesExcept(deps.DisabledRules)...))
	}
	scanner := a11y.NewScanner(scannerOpts...)
	sizer := assets.NewAggregator(
		assets.WithConcurrency(deps.Concurrency),
		assets.WithExifInspection(!deps.SkipExif),
		assets.WithLogger(deps.Logger),
	)

	r := &Registry{
		deps:      deps,
		scanner:   scanner,
		sizer:     sizer,
		reporter:  scoring.NewAggregator(deps.Resolver, deps.Cache),
		byName:    make(map[string]*Tool),
		logger:    deps.Logger,
		clockFunc: time.Now,
	}

	for _, def := range r.definitions() {
		sch, err := compileSchema(def.Name, string(def.InputSchema))
		if err != nil {
			return nil, err
		}
		def.schema = sch
		r.tools = append(r.tools, def)
		r.byName[def.Name] = def
	}
	return r, nil
}

func (r *Registry) definitions() []*Tool {
	return []*Tool{
		{
			Name:        NameRootsList,
			Description: "List the allowed root directories of this server.",
			InputSchema: json.RawMessage(rootsListSchema),
			handler:     r.rootsList,
		},
		{
			Name:        NameSitemap,
			Description: "Return the file and directory tree of a path inside the allowed roots.",
			InputSchema: json.RawMessage(sitemapSchema),
			handler:     r.sitemap,
		},
		{
			Name:        NameLinkCheck,
			Description: "Check internal links of HTML documents and report missing targets.",
			InputSchema: json.RawMessage(linkCheckSchema),
			handler:     r.linkCheck,
		},
		{
			Name:        NameAssetBudget,
			Description: "Size static assets, list the heaviest ones and those over the budget.",
			InputSchema: json.RawMessage(assetBudgetSchema),
			handler:     r.assetBudget,
		},
		{
			Name:        NameScanAccessibility,
			Description: "Run accessibility checks on HTML documents.",
			InputSchema: json.RawMessage(scanAccessibilitySchema),
			handler:     r.scanAccessibility,
		},
		{
			Name:        NameReport,
			Description: "Rank files by score and list quick wins from the cached scans of a path.",
			InputSchema: json.RawMessage(reportSchema),
			handler:     r.report,
		},
		{
			Name:        NameHistory,
			Description: "List recent tool invocations of this server process.",
			InputSchema: json.RawMessage(historySchema),
			handler:     r.history,
		},
	}
}

// List returns the tools in registration order.
func (r *Registry) List() []*Tool {
	out := make([]*Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Lookup returns the tool named name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Cache returns the result cache shared by the tools.
func (r *Registry) Cache() *cache.Store {
	return r.deps.Cache
}

// Call runs the named tool. The only error it returns is ErrUnknownTool;
// every other failure is reported through the CallResult.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (CallResult, error) {
	tool, ok := r.Lookup(name)
	if !ok {
		return CallResult{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := r.clockFunc()
	out, err := r.run(ctx, tool, args)
	elapsed := r.clockFunc().Sub(start)

	var res CallResult
	if err != nil {
		res = errorResult(err)
		r.logger.Debug("tool failed", "tool", name, "code", string(model.CodeOf(err)), "error", err)
	} else {
		res, err = successResult(out)
		if err != nil {
			res = errorResult(model.WrapError(model.CodeInternal, err, "failed to encode %s result", name))
		}
	}

	r.record(ctx, name, out, res, elapsed)
	return res, nil
}

// run validates args and invokes the handler, converting panics to
// Internal errors.
func (r *Registry) run(ctx context.Context, tool *Tool, args map[string]any) (out outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool panicked", "tool", tool.Name, "panic", fmt.Sprint(p), "stack", string(debug.Stack()))
			out = outcome{}
			err = model.NewError(model.CodeInternal, "tool %s failed unexpectedly", tool.Name)
		}
	}()

	normalized, err := normalizeArgs(args)
	if err != nil {
		return outcome{}, model.WrapError(model.CodeInvalidArgument, err, "arguments must be a JSON object")
	}
	if err := tool.schema.Validate(normalized); err != nil {
		return outcome{}, model.NewError(model.CodeInvalidArgument, "invalid arguments for %s: %s", tool.Name, validationMessage(err))
	}
	return tool.handler(ctx, normalized)
}

func (r *Registry) record(ctx context.Context, name string, out outcome, res CallResult, elapsed time.Duration) {
	if r.deps.History == nil {
		return
	}
	entry := history.Entry{
		Tool:       name,
		Target:     out.target.String(),
		OK:         !res.IsError,
		Code:       string(model.CodeOf(res.Err)),
		DurationMS: elapsed.Milliseconds(),
	}
	if !res.IsError {
		if digest, err := history.Digest(out.result); err == nil {
			entry.Digest = digest
		}
	}
	if entry.Digest != "" && entry.Target != "" {
		prev, ok, err := r.deps.History.LastDigest(ctx, name, entry.Target)
		if err != nil {
			r.logger.Debug("failed to look up previous result", "tool", name, "error", err)
		}
		entry.Unchanged = ok && prev == entry.Digest
	}
	if _, err := r.deps.History.Record(ctx, entry); err != nil {
		r.logger.Warn("failed to record tool call", "tool", name, "error", err)
	}
}

// Invoke adapts the registry to pipeline.Invoker. Failed calls return
// their error.
func (r *Registry) Invoke(ctx context.Context, tool string, args map[string]any) (pipeline.Output, error) {
	res, err := r.Call(ctx, tool, args)
	if err != nil {
		return pipeline.Output{}, err
	}
	if res.IsError {
		return pipeline.Output{Structured: res.Structured, Text: res.Text}, res.Err
	}
	return pipeline.Output{Structured: res.Structured["result"], Text: res.Text}, nil
}

func successResult(out outcome) (CallResult, error) {
	text := out.text
	if text == "" {
		data, err := json.MarshalIndent(out.result, "", "  ")
		if err != nil {
			return CallResult{}, err
		}
		text = string(data)
	}
	return CallResult{
		Structured: map[string]any{"result": out.result},
		Text:       text,
	}, nil
}

func errorResult(err error) CallResult {
	code := model.CodeOf(err)
	msg := model.MessageOf(err)
	return CallResult{
		Structured: map[string]any{
			"error": map[string]any{
				"code":    string(code),
				"message": msg,
			},
		},
		Text:    fmt.Sprintf("%s: %s", code, msg),
		IsError: true,
		Err:     err,
	}
}
