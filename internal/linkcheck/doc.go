// Package linkcheck validates the local targets of hyperlinks found in
// HTML documents.
//
// Every target derived from document content is re-validated against the
// allowed roots before the filesystem is consulted, so a link cannot be
// used to test for paths outside the sandbox.
package linkcheck
