// Package tools is the static routing table between tool names and their
// handlers.
//
// The table is built once by New and never changes afterwards. Every call
// validates its arguments against the tool's JSON Schema, resolves paths
// through the pathguard resolver and converts any failure into a structured
// error result, so a bad call never takes the server down.
package tools
