package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/sitelens/internal/config"
	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
	"github.com/nao1215/sitelens/internal/pipeline"
	"github.com/nao1215/sitelens/internal/report"
	"github.com/nao1215/sitelens/internal/tools"
	"github.com/spf13/cobra"
)

// auditTools are the tools an audit runs, in order. The report comes last so
// it sees every family.
var auditTools = []string{
	tools.NameScanAccessibility,
	tools.NameLinkCheck,
	tools.NameAssetBudget,
	tools.NameReport,
}

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <path>",
		Short: "Audit a site directory once and print the consolidated report",
		Long: `Audit runs scan-accessibility, link-check, asset-budget and report against
a path, through the same tools the server exposes, and prints the report.

Without configured roots, the audited directory becomes the only root.

Examples:
  # Audit a build directory
  sitelens audit ./public

  # Markdown report written to a file
  sitelens audit ./public --format markdown -o report/audit.md

  # Re-run whenever a file below ./public changes
  sitelens audit ./public --watch`,
		Args: cobra.ExactArgs(1),
		RunE: runAuditCmd,
	}

	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Report format: text, markdown or json")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("watch", "w", false,
		"Re-run the audit when files change")
	addTuningFlags(cmd)

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return err
	}

	target, err := auditTarget(cfg, args[0])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func() error {
		return writeAudit(ctx, cfg, logger, target, format, outputPath, cmd.OutOrStdout())
	}
	if !watch {
		return run()
	}

	dir, err := watchDir(cfg, target)
	if err != nil {
		return err
	}
	ignore := ""
	if outputPath != "" {
		ignore = pathguard.Normalize(outputPath)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", dir)
	return watchAudit(ctx, dir, ignore, logger, run)
}

// auditTarget returns the path to audit. Without configured roots the
// target directory, or the directory of a target file, becomes the only
// root and the target is made absolute.
func auditTarget(cfg *config.Config, path string) (string, error) {
	if len(cfg.Roots) > 0 {
		return path, nil
	}

	abs := pathguard.Normalize(path)
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("audit target not found: %s", path)
	}
	root := abs
	if !info.IsDir() {
		root = filepath.Dir(abs)
	}
	cfg.Roots = []string{root}
	return abs, nil
}

// watchDir returns the directory to watch for target.
func watchDir(cfg *config.Config, target string) (string, error) {
	resolved, err := pathguard.NewResolver(cfg.Roots).Resolve(target)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved.String())
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", resolved, err)
	}
	if info.IsDir() {
		return resolved.String(), nil
	}
	return filepath.Dir(resolved.String()), nil
}

// writeAudit runs one audit and writes the report to outputPath, or to
// stdout when outputPath is empty.
func writeAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger, target string, format report.Format, outputPath string, stdout io.Writer) error {
	rep, err := runAudit(ctx, cfg, logger, target)
	if err != nil {
		return err
	}

	output := stdout
	if outputPath != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer, err := report.NewWriter(format, output)
	if err != nil {
		return err
	}
	if _, err := writer.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// runAudit runs the audit tools against target with a fresh cache and
// returns the consolidated report. The first failing tool, in run order,
// aborts the audit.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger, target string) (*model.SiteReport, error) {
	registry, err := newRegistry(cfg, logger, nil)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	steps := make([]pipeline.Step, 0, len(auditTools))
	for _, name := range auditTools {
		steps = append(steps, pipeline.NewToolStep(registry, name, nil))
	}
	p.AddSteps(steps...)
	logger.Debug("starting audit", "target", target, "steps", p.StepNames())

	audit := pipeline.NewAudit(target)
	if err := p.Execute(ctx, audit); err != nil {
		return nil, err
	}

	if audit.Failed() {
		for _, step := range audit.PerformedSteps {
			if err, ok := audit.Errors[step]; ok {
				return nil, fmt.Errorf("%s failed: %w", step, err)
			}
		}
	}

	rep, ok := audit.Outputs[tools.NameReport].Structured.(*model.SiteReport)
	if !ok {
		return nil, fmt.Errorf("%s returned no report", tools.NameReport)
	}
	return rep, nil
}
