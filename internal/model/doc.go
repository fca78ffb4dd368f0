// Package model defines the core data structures shared across SiteLens.
//
// This package contains the following main types:
//   - Issue and FileResult: accessibility findings for one HTML document
//   - LinkResult: the outcome of checking one hyperlink target
//   - AssetSummary: size aggregation of static assets against a budget
//   - ScanBucket: the cached set of scan families for one resolved target
//   - SiteReport: the ranked, consolidated report built from a ScanBucket
//   - Error: the tool-visible error taxonomy with stable machine codes
//
// Models live in their own package because the scanners, the cache, the
// scoring aggregator and the report writers all exchange them. Every type is
// serializable to JSON, which is the wire format of the tool surface.
package model
