package pipeline

import (
	"context"
	"log/slog"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the audit
// accumulated by previous steps.
type Step interface {
	// Do executes the step. Failures that should stop the pipeline are
	// returned; the pipeline records them in the audit.
	Do(ctx context.Context, audit *Audit) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Audit is the state shared by the steps of one pipeline run.
type Audit struct {
	// Target is the caller-supplied path being audited.
	Target string

	// Outputs holds the output of every successful step, by step name.
	Outputs map[string]Output

	// Errors holds the failure of every failed step, by step name.
	Errors map[string]error

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Canceled is set when the context ended before all steps ran.
	Canceled bool
}

// NewAudit creates an empty Audit for target.
func NewAudit(target string) *Audit {
	return &Audit{
		Target:         target,
		Outputs:        make(map[string]Output),
		Errors:         make(map[string]error),
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether any step failed.
func (a *Audit) Failed() bool {
	return len(a.Errors) > 0
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing steps after one fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in order. Cancellation is checked before each
// step. It returns the first step error unless continue-on-error is set,
// in which case errors are only recorded in the audit.
func (p *Pipeline) Execute(ctx context.Context, audit *Audit) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			audit.Canceled = true
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"target", audit.Target,
		)

		audit.PerformedSteps = append(audit.PerformedSteps, step.Name())
		if err := step.Do(ctx, audit); err != nil {
			p.logger.Warn("step failed",
				"step", step.Name(),
				"target", audit.Target,
				"error", err,
			)
			audit.Errors[step.Name()] = err
			if !p.continueOnError {
				return err
			}
		}
	}
	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
