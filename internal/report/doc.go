// Package report renders consolidated site reports.
//
// Writers share the Writer interface, so the CLI and the report tool can pick
// a format at runtime:
//   - SimpleWriter: terminal text with colored scores
//   - MarkdownWriter: GitHub-flavored markdown for sharing
//   - JSONWriter: the structured report for tool integration
package report
