package config

import (
	"os"
	"path/filepath"

	"github.com/nao1215/sitelens/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sitelens"

// xdgConfigFile is the file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// File represents the structure of the configuration file. Pointer fields
// distinguish "not set" from zero values.
type File struct {
	Roots       []string     `yaml:"roots,omitempty"`
	BudgetKB    *float64     `yaml:"budgetKB,omitempty"`
	Concurrency *int         `yaml:"concurrency,omitempty"`
	Weights     *FileWeights `yaml:"weights,omitempty"`
	Top         *int         `yaml:"top,omitempty"`

	InspectExif   *bool    `yaml:"inspectExif,omitempty"`
	DisabledRules []string `yaml:"disabledRules,omitempty"`
}

// FileWeights are the report weights of the configuration file. Members
// left out keep their default.
type FileWeights struct {
	A11y        *float64 `yaml:"a11y,omitempty"`
	Links       *float64 `yaml:"links,omitempty"`
	Performance *float64 `yaml:"performance,omitempty"`
}

// apply copies the members set in fw into w.
func (fw *FileWeights) apply(w model.Weights) model.Weights {
	if fw == nil {
		return w
	}
	if fw.A11y != nil {
		w.A11y = *fw.A11y
	}
	if fw.Links != nil {
		w.Links = *fw.Links
	}
	if fw.Performance != nil {
		w.Performance = *fw.Performance
	}
	return w
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .sitelens in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .sitelens in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), xdgConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
