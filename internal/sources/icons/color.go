package icons

import (
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// ContrastThreshold is the minimum contrast against white an icon color
	// must exceed.
	ContrastThreshold = 2.5

	// BlackReplacement is used instead of pure black.
	BlackReplacement = "#25292E"

	// step is one darken or saturate increment on the 0..1 Lab/LCh scale.
	step = 0.02 * 0.18

	maxSteps = 1000
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// SafeColor returns a color with enough contrast against a white background.
// Colors that already pass are returned unchanged; pure black is replaced;
// anything else is darkened and saturated in small steps until it passes.
func SafeColor(hex string) (string, bool) {
	c, ok := ParseColor(hex)
	if !ok {
		return "", false
	}
	if Contrast(c, white) > ContrastThreshold {
		return hex, true
	}
	if c.Hex() == "#000000" {
		return BlackReplacement, true
	}

	for range maxSteps {
		l, a, b := c.Lab()
		c = colorful.Lab(math.Max(l-step, 0), a, b)
		h, chroma, l := c.Hcl()
		c = colorful.Hcl(h, chroma+step, l).Clamped()
		if Contrast(c, white) > ContrastThreshold {
			return c.Hex(), true
		}
	}
	return BlackReplacement, true
}

// Contrast returns the WCAG contrast ratio of two colors, rounded to two
// decimals.
func Contrast(a, b colorful.Color) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return math.Round((la+0.05)/(lb+0.05)*100) / 100
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.Clamped().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ParseColor parses #rgb and #rrggbb colors.
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}
