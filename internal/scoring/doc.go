// Package scoring turns the cached scan results of one target into a
// ranked, per-file health report with a short list of quick wins.
//
// Scoring starts every file at 100 and subtracts weighted penalties:
//
//	100 - (5*errors + 2*warns)*w.a11y - 3*missingLinks*w.links - 4*overBudget*w.performance
//
// The result is clamped to [0, 100] and rounded to two decimals. Families
// that have not run contribute no penalty.
package scoring
