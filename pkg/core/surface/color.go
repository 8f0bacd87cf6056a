package surface

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorSample is a mean RGB color on the 0..255 scale.
type ColorSample struct {
	R, G, B float64
}

// RGB rounds the sample to 8-bit channels.
func (c ColorSample) RGB() (r, g, b uint8) {
	return Round8(c.R), Round8(c.G), Round8(c.B)
}

// NRGBA returns the sample as an opaque color.
func (c ColorSample) NRGBA() color.NRGBA {
	r, g, b := c.RGB()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// Colorful converts the sample for perceptual math.
func (c ColorSample) Colorful() colorful.Color {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
}

// Hex formats the sample as #rrggbb.
func (c ColorSample) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// Round8 rounds half away from zero and clamps to 0..255.
func Round8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}
