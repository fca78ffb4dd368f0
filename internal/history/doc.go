// Package history keeps an in-memory log of the tool invocations served
// by the running process.
//
// The log lives in a private in-memory SQLite database (modernc.org/sqlite,
// no cgo) and disappears with the process. Each entry carries a uuid and a
// SHA3-256 digest of the structured result, so two invocations can be
// compared without storing their full output.
package history
