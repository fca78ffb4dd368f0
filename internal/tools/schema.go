package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const rootsListSchema = `{
  "type": "object",
  "properties": {}
}`

const sitemapSchema = `{
  "type": "object",
  "properties": {
    "path": {"type": "string", "minLength": 1, "description": "Directory or file inside an allowed root"},
    "includeHtmlOnly": {"type": "boolean", "description": "List only .html and .htm files"},
    "maxDepth": {"type": "number", "description": "Maximum depth, clamped to 0-20 (default 20)"}
  },
  "required": ["path"]
}`

const linkCheckSchema = `{
  "type": "object",
  "properties": {
    "path": {"type": "string", "minLength": 1, "description": "Site directory or HTML file"},
    "entry": {"type": "string", "description": "Check only the HTML under this path, which must lie inside path"},
    "extensions": {"type": "array", "items": {"type": "string"}, "description": "Only check local targets with these extensions"}
  },
  "required": ["path"]
}`

const assetBudgetSchema = `{
  "type": "object",
  "properties": {
    "path": {"type": "string", "minLength": 1, "description": "Site directory or asset file"},
    "patterns": {"type": "array", "items": {"type": "string"}, "description": "Glob patterns; patterns without '/' match at any depth"},
    "budgetKB": {"type": "number", "description": "Per-file size budget in KB (default 200)"}
  },
  "required": ["path"]
}`

const scanAccessibilitySchema = `{
  "type": "object",
  "properties": {
    "path": {"type": "string", "minLength": 1, "description": "Site directory or HTML file"},
    "include": {"type": "array", "items": {"type": "string"}, "description": "Keep files whose path contains any of these substrings"},
    "exclude": {"type": "array", "items": {"type": "string"}, "description": "Drop files whose path contains any of these substrings"}
  },
  "required": ["path"]
}`

// weights and top are left untyped: unusable values fall back to defaults.
const reportSchema = `{
  "type": "object",
  "properties": {
    "path": {"type": "string", "minLength": 1, "description": "Target previously scanned"},
    "weights": {
      "description": "Penalty weights {a11y, links, performance}, default 1.0 each"
    },
    "top": {"description": "Number of ranking entries and quick wins, clamped to 1-100 (default 10)"},
    "format": {"type": "string", "enum": ["text", "markdown"], "description": "Rendering of the text content"}
  },
  "required": ["path"]
}`

const historySchema = `{
  "type": "object",
  "properties": {
    "limit": {"type": "number", "description": "Number of entries, clamped to 1-500 (default 50)"}
  }
}`

const schemaBaseURL = "https://sitelens.invalid/schemas/"

// compileSchema compiles a schema document registered under name.
func compileSchema(name, src string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode schema for %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := schemaBaseURL + name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema for %s: %w", name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema for %s: %w", name, err)
	}
	return sch, nil
}

// normalizeArgs round-trips args through JSON so Go values built by the CLI
// and values decoded from the wire look the same to the validator and the
// handlers. Numbers become json.Number.
func normalizeArgs(args map[string]any) (map[string]any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("arguments must be an object")
	}
	return m, nil
}

// validationMessage flattens a schema validation error into one line,
// dropping the header that names the schema URL.
func validationMessage(err error) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	if len(lines) > 1 {
		lines = lines[1:]
	}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "- "))
		if l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "; ")
}
