// Package main provides the entry point for the SiteLens CLI.
//
// SiteLens audits the source tree of a static website for accessibility
// defects, broken internal links and oversized assets, and exposes the
// checks as MCP tools over stdio.
//
// Usage:
//
//	sitelens serve --roots "/srv/site;/srv/docs"
//	sitelens audit ./public
//
// See --help for all available options.
package main

// main is the entry point for SiteLens.
func main() {
	Execute()
}
