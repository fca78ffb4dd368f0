package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseWeights(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    any
		expected Weights
	}{
		{"nil", nil, DefaultWeights()},
		{"not an object", "heavy", DefaultWeights()},
		{"partial", map[string]any{"a11y": 2.0}, Weights{A11y: 2, Links: 1, Performance: 1}},
		{"all", map[string]any{"a11y": 0.5, "links": 0.0, "performance": 3}, Weights{A11y: 0.5, Links: 0, Performance: 3}},
		{"non-numeric member", map[string]any{"links": true}, DefaultWeights()},
		{"numeric string", map[string]any{"links": "2.5"}, Weights{A11y: 1, Links: 2.5, Performance: 1}},
		{"negative", map[string]any{"performance": -1.0}, DefaultWeights()},
		{"infinite", map[string]any{"a11y": math.Inf(1)}, DefaultWeights()},
		{"json number", map[string]any{"a11y": json.Number("4")}, Weights{A11y: 4, Links: 1, Performance: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseWeights(tc.input)
			if got != tc.expected {
				t.Errorf("got %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestParseTop(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    any
		expected int
	}{
		{"nil", nil, DefaultTop},
		{"non-numeric", "many", DefaultTop},
		{"bool", true, DefaultTop},
		{"in range", 25.0, 25},
		{"fraction truncated", 3.9, 3},
		{"zero clamped", 0.0, MinTop},
		{"negative clamped", -5, MinTop},
		{"too large clamped", 1000, MaxTop},
		{"nan", math.NaN(), DefaultTop},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseTop(tc.input); got != tc.expected {
				t.Errorf("got %d, expected %d", got, tc.expected)
			}
		})
	}
}

func TestIsQuickWinRule(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		rule     string
		expected bool
	}{
		{RuleImgAlt, true},
		{RuleFormLabels, true},
		{RuleContrast, false},
		{RuleLandmarks, false},
		{RuleParseError, false},
	}

	for _, tc := range testCases {
		t.Run(tc.rule, func(t *testing.T) {
			t.Parallel()
			if got := IsQuickWinRule(tc.rule); got != tc.expected {
				t.Errorf("IsQuickWinRule(%q) = %v, expected %v", tc.rule, got, tc.expected)
			}
		})
	}
}
