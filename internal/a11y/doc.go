// Package a11y checks HTML documents for accessibility defects.
//
// Each Rule is an independent, pure check over a parsed document. The
// Scanner runs the default rules, in a fixed order, over a batch of files
// and returns one FileResult per file. A file that cannot be read or
// parsed yields a single parse-error issue and does not affect the rest
// of the batch.
package a11y
