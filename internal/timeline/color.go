package timeline

import (
	"image/color"
	"math"
	"regexp"
	"strconv"
)

var hexColorRe = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

// ColorAt blends the off and on colors of a shape by the actor state value.
// Each RGB channel is interpolated independently and rounded to the
// nearest integer. A malformed hex operand degrades to black rather than
// failing: a bad stored color should dim the shape, not kill the render.
func ColorAt(offHex, onHex string, value float64) color.RGBA {
	off := parseHex(offHex)
	on := parseHex(onHex)

	// Saturate instead of letting the uint8 conversion wrap: an
	// out-of-range value pins the channel at its bound.
	blend := func(a, b uint8) uint8 {
		v := math.Round(float64(a) + value*(float64(b)-float64(a)))
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}

	return color.RGBA{
		R: blend(off.R, on.R),
		G: blend(off.G, on.G),
		B: blend(off.B, on.B),
		A: 255,
	}
}

// parseHex parses a strict 6-hex-digit color, with an optional leading '#'.
// Anything else yields black.
func parseHex(s string) color.RGBA {
	m := hexColorRe.FindStringSubmatch(s)
	if m == nil {
		return color.RGBA{A: 255}
	}
	v, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
