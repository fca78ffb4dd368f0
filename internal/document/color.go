package document

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RGB is an sRGB colour with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

var (
	colorDecl      = regexp.MustCompile(`(?i)(?:^|;)\s*color\s*:\s*([^;]+)`)
	backgroundDecl = regexp.MustCompile(`(?i)(?:^|;)\s*background(?:-color)?\s*:\s*([^;]+)`)
	hexColor       = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6})$`)
	rgbColor       = regexp.MustCompile(`^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)
)

// ParseInlineColors extracts the foreground and background declarations
// from an inline style. Either result is empty when not declared.
func ParseInlineColors(style string) (fg, bg string) {
	if m := colorDecl.FindStringSubmatch(style); m != nil {
		fg = strings.TrimSpace(m[1])
	}
	if m := backgroundDecl.FindStringSubmatch(style); m != nil {
		bg = strings.TrimSpace(m[1])
	}
	return fg, bg
}

// ParseColor parses #rgb, #rrggbb and rgb(r, g, b). Channel values above
// 255 are clamped.
func ParseColor(s string) (RGB, bool) {
	c := strings.ToLower(strings.TrimSpace(s))
	if m := hexColor.FindStringSubmatch(c); m != nil {
		h := m[1]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return RGB{}, false
		}
		return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
	}
	if m := rgbColor.FindStringSubmatch(c); m != nil {
		return RGB{R: channel(m[1]), G: channel(m[2]), B: channel(m[3])}, true
	}
	return RGB{}, false
}

func channel(s string) uint8 {
	v, err := strconv.Atoi(s)
	if err != nil || v > 255 {
		return 255
	}
	return uint8(v)
}

// RelativeLuminance returns the WCAG 2 relative luminance of c.
func RelativeLuminance(c RGB) float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns the WCAG contrast ratio between two colours,
// from 1 to 21.
func ContrastRatio(fg, bg RGB) float64 {
	l1, l2 := RelativeLuminance(fg), RelativeLuminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}
