// Package assets sizes the static assets of a site and compares them with
// a per-file budget. JPEG and TIFF images are also inspected for embedded
// EXIF blocks, which add transfer weight and may leak location or device
// details.
package assets
