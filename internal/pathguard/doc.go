// Package pathguard decides which filesystem paths SiteLens may touch.
//
// A Resolver holds the ordered, immutable list of allowed roots supplied at
// process start. It is the only producer of ResolvedPath values; scanners and
// the result cache accept nothing else.
//
// Containment is purely lexical: a candidate is inside a root when the path
// relative to that root has no leading ".." element. Symbolic links are not
// resolved, so a link inside a root that points outside it is followed by the
// operating system when the file is read. Operators who need protection
// against symlink escapes must keep such links out of the allowed roots.
package pathguard
