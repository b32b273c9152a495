// Package scale maps data values to colors and pixel positions.
package scale

import (
	"fmt"
	"math"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luma is the Rec. 601 weighted brightness of c.
func (c RGB) Luma() float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Palette is a set of evenly spaced stops from t=0 to t=1.
type Palette []RGB

// Viridis samples the viridis colormap at t = 0, 0.1, ..., 1.
var Viridis = Palette{
	{0x44, 0x01, 0x54},
	{0x48, 0x24, 0x75},
	{0x41, 0x44, 0x87},
	{0x35, 0x5f, 0x8d},
	{0x2a, 0x78, 0x8e},
	{0x21, 0x91, 0x8c},
	{0x22, 0xa8, 0x84},
	{0x44, 0xbf, 0x70},
	{0x7a, 0xd1, 0x51},
	{0xbd, 0xdf, 0x26},
	{0xfd, 0xe7, 0x25},
}

// At interpolates the palette at t, clamped to [0, 1].
func (p Palette) At(t float64) RGB {
	if len(p) == 0 {
		return RGB{}
	}
	if len(p) == 1 || math.IsNaN(t) || t <= 0 {
		return p[0]
	}
	if t >= 1 {
		return p[len(p)-1]
	}
	pos := t * float64(len(p)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := p[i], p[i+1]
	return RGB{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// Sequential maps a continuous domain onto a palette.
type Sequential struct {
	lo, hi  float64
	palette Palette
}

// NewSequential builds a sequential color scale over [lo, hi].
func NewSequential(lo, hi float64, palette Palette) Sequential {
	return Sequential{lo: lo, hi: hi, palette: palette}
}

// Domain returns the scale bounds.
func (s Sequential) Domain() (lo, hi float64) {
	return s.lo, s.hi
}

// Normalize maps v into [0, 1]. Values outside the domain are clamped and a
// zero-width domain maps everything to 0.
func (s Sequential) Normalize(v float64) float64 {
	span := s.hi - s.lo
	if span <= 0 || math.IsNaN(v) {
		return 0
	}
	t := (v - s.lo) / span
	return math.Max(0, math.Min(1, t))
}

// RGB returns the color for v.
func (s Sequential) RGB(v float64) RGB {
	return s.palette.At(s.Normalize(v))
}

// Color returns the #rrggbb color for v.
func (s Sequential) Color(v float64) string {
	return s.RGB(v).Hex()
}

// Ticks returns n+1 evenly spaced values from lo to hi, used for legends.
func (s Sequential) Ticks(n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		out[i] = s.lo + (s.hi-s.lo)*float64(i)/float64(n)
	}
	return out
}
