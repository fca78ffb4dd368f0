package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitelens"

	// RootsEnvVar is consulted when no --roots flag is given.
	RootsEnvVar = "ALLOWED_ROOTS"

	// DefaultBudgetKB is the per-asset size budget.
	DefaultBudgetKB = 200.0

	// DefaultConcurrency bounds per-file fan-out during scans.
	DefaultConcurrency = 8

	// DefaultTop is the number of ranking entries and quick wins in reports.
	DefaultTop = model.DefaultTop

	// MaxConcurrency caps the fan-out. Scans are I/O bound, so more
	// goroutines than this only add contention.
	MaxConcurrency = 256
)

// Config holds all configuration options for SiteLens.
// It is populated from CLI flags, the environment and the config file, and
// passed through the application via dependency injection.
type Config struct {
	// Roots are the allowed root directories, in declared order. Relative
	// tool paths resolve against the first root that contains them.
	Roots []string

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool

	// JSONLogs switches stderr logging to JSON.
	JSONLogs bool

	// BudgetKB is the asset-budget default when a call gives none.
	BudgetKB float64

	// Concurrency bounds per-file fan-out.
	Concurrency int

	// Weights are the report defaults when a call gives none.
	Weights model.Weights

	// Top is the report bound when a call gives none.
	Top int

	// InspectExif enables EXIF detection in JPEG assets.
	InspectExif bool

	// DisabledRules are accessibility rules left out of every scan.
	DisabledRules []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Roots:       []string{},
		BudgetKB:    DefaultBudgetKB,
		Concurrency: DefaultConcurrency,
		Weights:     model.DefaultWeights(),
		Top:         DefaultTop,
		InspectExif: true,
	}
}

// XDGConfigDir returns the XDG config directory for SiteLens.
// On Linux: ~/.config/sitelens
// On macOS: ~/Library/Application Support/sitelens
// On Windows: %APPDATA%\sitelens
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the values set in f into c. Flags are applied after
// this, so they override file values.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if len(f.Roots) > 0 {
		c.Roots = append([]string(nil), f.Roots...)
	}
	if f.BudgetKB != nil {
		c.BudgetKB = *f.BudgetKB
	}
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	c.Weights = f.Weights.apply(c.Weights)
	if f.Top != nil {
		c.Top = *f.Top
	}
	if f.InspectExif != nil {
		c.InspectExif = *f.InspectExif
	}
	if len(f.DisabledRules) > 0 {
		c.DisabledRules = append([]string(nil), f.DisabledRules...)
	}
}

// ResolveRoots picks the roots by precedence: the flag value, then the
// environment value, then fallback. Flag and environment values are
// semicolon-separated lists.
func ResolveRoots(flagValue, envValue string, fallback []string) []string {
	if roots := pathguard.SplitRoots(flagValue); len(roots) > 0 {
		return roots
	}
	if roots := pathguard.SplitRoots(envValue); len(roots) > 0 {
		return roots
	}
	out := make([]string, 0, len(fallback))
	for _, r := range fallback {
		out = append(out, pathguard.SplitRoots(r)...)
	}
	return out
}

// Validate checks if the configuration is valid and returns the first
// problem found. An empty root list is valid: the server then answers every
// path-dependent call with NoRootsConfigured.
func (c *Config) Validate() error {
	for _, root := range c.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
		}
	}

	if c.BudgetKB <= 0 {
		return ErrInvalidBudget
	}

	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return ErrInvalidConcurrency
	}

	if c.Top < model.MinTop || c.Top > model.MaxTop {
		return ErrInvalidTop
	}

	if c.Weights.Normalized() != c.Weights {
		return ErrInvalidWeights
	}

	for _, rule := range c.DisabledRules {
		if !model.IsCheckRule(rule) {
			return fmt.Errorf("%w: %s", ErrUnknownRule, rule)
		}
	}

	return nil
}
