// Package sitefs enumerates the files of a site tree: the sitemap walk,
// HTML listing and asset globbing. Every path it returns lies under the
// resolved target it was given.
package sitefs
