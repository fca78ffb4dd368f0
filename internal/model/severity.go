package model

import (
	"fmt"
	"strings"
)

// Severity represents how serious an accessibility issue is.
// The zero value is SeverityInfo.
type Severity int

const (
	// SeverityInfo is an advisory note. It does not affect the score.
	SeverityInfo Severity = iota

	// SeverityWarn is a defect that degrades accessibility but does not
	// block access to content, such as a skipped heading level.
	SeverityWarn

	// SeverityError is a defect that blocks assistive technology users,
	// such as an image without alternative text.
	SeverityError
)

// String returns the upper-case name used on the wire.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a name such as "warn" or "ERROR" to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return SeverityInfo, nil
	case "WARN", "WARNING":
		return SeverityWarn, nil
	case "ERROR":
		return SeverityError, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalText encodes the severity as its name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AllSeverities returns every severity from least to most serious.
func AllSeverities() []Severity {
	return []Severity{SeverityInfo, SeverityWarn, SeverityError}
}
