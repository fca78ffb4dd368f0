// Package document parses HTML files and extracts the elements the
// accessibility rules and the link checker operate on.
//
// Parsing uses golang.org/x/net/html, which accepts malformed markup the
// same way browsers do. Helpers walk the parsed tree in document order.
package document
