package assets

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// maxExifScan bounds how much of an image is read when searching for EXIF.
const maxExifScan = 1 << 20

// exifExtensions are the formats that carry EXIF blocks.
var exifExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// exifInfo describes the EXIF block of one image.
type exifInfo struct {
	tags      int
	sizeKB    float64
	sensitive []string
}

// sensitiveGroup maps EXIF tag names to privacy-relevant groups.
func sensitiveGroup(tag string) string {
	switch tag {
	case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef", "GPSAltitude":
		return "gps"
	case "SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber":
		return "serial"
	case "Artist", "Author", "Copyright", "XPAuthor":
		return "author"
	case "Make", "Model":
		return "camera"
	case "Software", "ProcessingSoftware":
		return "software"
	default:
		return ""
	}
}

// hasExifExtension reports whether path is a format worth inspecting.
func hasExifExtension(path string) bool {
	return exifExtensions[strings.ToLower(filepath.Ext(path))]
}

// inspectExif reads the head of path and parses its EXIF block.
// It returns false when the file has none or cannot be read.
func inspectExif(path string) (exifInfo, bool) {
	f, err := os.Open(path) //nolint:gosec // path is contained in an allowed root
	if err != nil {
		return exifInfo{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxExifScan))
	if err != nil {
		return exifInfo{}, false
	}
	return parseExif(data)
}

func parseExif(data []byte) (exifInfo, bool) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return exifInfo{}, false
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return exifInfo{}, false
	}

	info := exifInfo{
		tags:   len(entries),
		sizeKB: round2(float64(jpegExifSegmentSize(data)) / 1024),
	}
	for _, entry := range entries {
		group := sensitiveGroup(entry.TagName)
		if group != "" && !slices.Contains(info.sensitive, group) {
			info.sensitive = append(info.sensitive, group)
		}
	}
	slices.Sort(info.sensitive)
	return info, info.tags > 0
}

// jpegExifSegmentSize returns the size in bytes of the APP1 Exif segment of
// a JPEG stream, marker included, or 0 when there is none. TIFF files keep
// their metadata inline and report 0.
func jpegExifSegmentSize(data []byte) int {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0
	}
	for i := 2; i+4 <= len(data); {
		if data[i] != 0xFF {
			return 0
		}
		marker := data[i+1]
		if marker == 0xDA || marker == 0xD9 {
			// Start of scan or end of image: no more metadata segments.
			return 0
		}
		length := int(data[i+2])<<8 | int(data[i+3])
		if length < 2 {
			return 0
		}
		if marker == 0xE1 && i+10 <= len(data) && string(data[i+4:i+10]) == "Exif\x00\x00" {
			return length + 2
		}
		i += 2 + length
	}
	return 0
}
