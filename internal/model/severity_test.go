package model

import (
	"encoding/json"
	"testing"
)

// TestSeverityString tests the String method of Severity.
func TestSeverityString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		severity Severity
		expected string
	}{
		{SeverityInfo, "INFO"},
		{SeverityWarn, "WARN"},
		{SeverityError, "ERROR"},
		{Severity(999), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.severity.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.severity.String(), tc.expected)
			}
		})
	}
}

// TestParseSeverity tests ParseSeverity with valid and invalid names.
func TestParseSeverity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Severity
		wantErr  bool
	}{
		{"INFO", SeverityInfo, false},
		{"warn", SeverityWarn, false},
		{"Warning", SeverityWarn, false},
		{" ERROR ", SeverityError, false},
		{"critical", SeverityInfo, true},
		{"", SeverityInfo, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSeverity(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseSeverity(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.expected {
				t.Errorf("ParseSeverity(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}

// TestSeverityOrdering tests that severity levels are ordered correctly.
// Info < Warn < Error
func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	all := AllSeverities()
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Errorf("%v should be less than %v", all[i-1], all[i])
		}
	}
}

// TestSeverityJSON tests that severities travel as their names.
func TestSeverityJSON(t *testing.T) {
	t.Parallel()

	issue := Issue{Rule: RuleImgAlt, Severity: SeverityError, Message: "missing alt"}
	data, err := json.Marshal(issue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"rule":"img-alt","severity":"ERROR","message":"missing alt"}`
	if string(data) != expected {
		t.Errorf("got %s, expected %s", data, expected)
	}

	var decoded Issue
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != issue {
		t.Errorf("got %+v, expected %+v", decoded, issue)
	}

	if err := json.Unmarshal([]byte(`{"severity":"FATAL"}`), &decoded); err == nil {
		t.Error("expected error for unknown severity")
	}
}
