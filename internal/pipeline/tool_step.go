package pipeline

import "context"

// Output is what a tool invocation produced.
type Output struct {
	// Structured is the machine-readable result.
	Structured any

	// Text is the human-readable rendering.
	Text string
}

// Invoker calls a tool by name.
type Invoker interface {
	Invoke(ctx context.Context, tool string, args map[string]any) (Output, error)
}

// ToolStep is a step that invokes one tool against the audit target.
type ToolStep struct {
	tool    string
	invoker Invoker
	extra   map[string]any
}

// NewToolStep creates a step that calls tool with {"path": target} plus
// the extra arguments.
func NewToolStep(invoker Invoker, tool string, extra map[string]any) *ToolStep {
	return &ToolStep{tool: tool, invoker: invoker, extra: extra}
}

// Name returns the tool name.
func (s *ToolStep) Name() string {
	return s.tool
}

// Do invokes the tool and stores its output in the audit.
func (s *ToolStep) Do(ctx context.Context, audit *Audit) error {
	args := make(map[string]any, len(s.extra)+1)
	for k, v := range s.extra {
		args[k] = v
	}
	args["path"] = audit.Target

	out, err := s.invoker.Invoke(ctx, s.tool, args)
	if err != nil {
		return err
	}
	audit.Outputs[s.tool] = out
	return nil
}
