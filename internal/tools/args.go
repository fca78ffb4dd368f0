package tools

import (
	"encoding/json"
	"math"
	"strings"
)

// Argument accessors. Arguments have already passed schema validation, so
// a wrong type only occurs for untyped properties and reads as absent.

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string) //nolint:errcheck // absent or mistyped reads as empty
	return s
}

func argBool(args map[string]any, key string) bool {
	b, _ := args[key].(bool) //nolint:errcheck // absent or mistyped reads as false
	return b
}

func argStrings(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// argNumber returns the numeric value of key and whether it was present and
// finite.
func argNumber(args map[string]any, key string) (float64, bool) {
	var f float64
	switch v := args[key].(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
