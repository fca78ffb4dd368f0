// Package pipeline runs SiteLens work in two shapes.
//
// A Pipeline executes named steps in sequence against one Audit. The audit
// command uses it to run the scan tools and then the report against a
// single target, each step invoking a tool through an Invoker.
//
// Map fans a per-item function out over a slice with bounded concurrency
// using errgroup, writing each result at its input index so output order
// matches input order. The accessibility scanner and the asset sizer use it.
package pipeline
