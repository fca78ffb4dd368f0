// Package mcp serves the tool registry as a JSON-RPC 2.0 server over a byte
// stream, usually stdin and stdout.
//
// Two framings are accepted: Content-Length headers followed by the body,
// and newline-delimited JSON. The framing is detected per message from its
// first byte and the response is written with the same framing.
package mcp
