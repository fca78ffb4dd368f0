package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/sitelens/internal/cache"
	"github.com/nao1215/sitelens/internal/config"
	"github.com/nao1215/sitelens/internal/history"
	"github.com/nao1215/sitelens/internal/log"
	"github.com/nao1215/sitelens/internal/pathguard"
	"github.com/nao1215/sitelens/internal/tools"
	"github.com/spf13/cobra"
)

// addTuningFlags registers the flags shared by serve and audit.
func addTuningFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("budget-kb", config.DefaultBudgetKB,
		"Per-asset size budget in kilobytes")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of files scanned concurrently")
	cmd.Flags().Int("top", config.DefaultTop,
		"Number of ranking entries and quick wins in reports")
	cmd.Flags().Bool("no-exif", false,
		"Do not inspect JPEG assets for EXIF metadata")
	cmd.Flags().StringSlice("disable-rule", nil,
		"Accessibility rule to skip (repeatable): img-alt, form-labels, landmarks, headings-order, contrast")
}

// buildConfig creates a Config from the configuration file, the environment
// and the command flags, in increasing order of precedence. It does not
// validate the result.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist. Otherwise a missing file
	// just leaves the defaults in place.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	rootsFlag, err := cmd.Flags().GetString("roots")
	if err != nil {
		return nil, err
	}
	cfg.Roots = config.ResolveRoots(rootsFlag, os.Getenv(config.RootsEnvVar), cfg.Roots)

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	cfg.JSONLogs, err = cmd.Flags().GetBool("json-logs")
	if err != nil {
		return nil, err
	}

	if err := applyTuningFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyTuningFlags copies the tuning flags the user set into cfg. Flags
// left at their default keep the configuration file value.
func applyTuningFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cmd.Flags().Changed("budget-kb") {
		if cfg.BudgetKB, err = cmd.Flags().GetFloat64("budget-kb"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("top") {
		if cfg.Top, err = cmd.Flags().GetInt("top"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("no-exif") {
		noExif, err := cmd.Flags().GetBool("no-exif")
		if err != nil {
			return err
		}
		cfg.InspectExif = !noExif
	}
	if cmd.Flags().Changed("disable-rule") {
		if cfg.DisabledRules, err = cmd.Flags().GetStringSlice("disable-rule"); err != nil {
			return err
		}
	}
	return nil
}

// newLogger creates the stderr logger. Paths outside the roots are masked.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return log.New(w, log.Options{
		Verbose: cfg.Verbose,
		JSON:    cfg.JSONLogs,
		Roots:   cfg.Roots,
	})
}

// newRegistry builds the tool routing table for cfg. hist may be nil.
func newRegistry(cfg *config.Config, logger *slog.Logger, hist *history.Log) (*tools.Registry, error) {
	registry, err := tools.New(tools.Deps{
		Resolver:    pathguard.NewResolver(cfg.Roots),
		Cache:       cache.New(),
		History:     hist,
		Logger:      logger,
		Concurrency: cfg.Concurrency,
		BudgetKB:    cfg.BudgetKB,
		Weights:     cfg.Weights,
		Top:         cfg.Top,

		SkipExif:      !cfg.InspectExif,
		DisabledRules: cfg.DisabledRules,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}
	return registry, nil
}
