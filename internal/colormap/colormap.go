// Package colormap derives the buffers the shading pipeline consumes
// from a finished drill map: iteration counts, normalized counts, debug
// overlay colors, and downsampled normal vectors.
package colormap

import (
	"math"

	"github.com/deepdrill/drill/internal/drillmap"
)

// Options controls the derivation.
type Options struct {
	// Overlays enables the per-result debug overlay colors.
	Overlays bool

	// NormalDownsample is the block size for normal-vector averaging.
	// Values < 1 are treated as 1 (no downsampling).
	NormalDownsample int
}

// ColorMap carries the per-pixel shading inputs.
type ColorMap struct {
	Width  int
	Height int

	Iterations []uint32
	Normalized []float32

	// Overlay holds one RGBA color per pixel when overlays are enabled.
	Overlay []uint32

	// Normals is the downsampled normal grid, NormalW x NormalH.
	Normals []complex64
	NormalW int
	NormalH int
}

// overlayColors maps each result category to an RGBA debug color.
var overlayColors = map[drillmap.Result]uint32{
	drillmap.Unprocessed:     0x000000ff,
	drillmap.Escaped:         0x00000000,
	drillmap.MaxDepthReached: 0x202020ff,
	drillmap.InBulb:          0x0040c0ff,
	drillmap.InCardioid:      0x00a040ff,
	drillmap.Periodic:        0xc0a000ff,
	drillmap.Attracted:       0xc06000ff,
	drillmap.Glitch:          0xc00000ff,
}

// Derive builds a ColorMap from a drill map.
func Derive(m *drillmap.DrillMap, opts Options) *ColorMap {
	down := opts.NormalDownsample
	if down < 1 {
		down = 1
	}
	nw := (m.Width + down - 1) / down
	nh := (m.Height + down - 1) / down

	c := &ColorMap{
		Width:      m.Width,
		Height:     m.Height,
		Iterations: make([]uint32, m.Width*m.Height),
		Normalized: make([]float32, m.Width*m.Height),
		Normals:    make([]complex64, nw*nh),
		NormalW:    nw,
		NormalH:    nh,
	}
	if opts.Overlays {
		c.Overlay = make([]uint32, m.Width*m.Height)
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			e := m.Get(x, y)
			i := y*m.Width + x
			c.Iterations[i] = uint32(e.Last)
			c.Normalized[i] = normalizedCount(e)
			if opts.Overlays {
				c.Overlay[i] = overlayColors[e.Result]
			}
		}
	}

	for by := 0; by < nh; by++ {
		for bx := 0; bx < nw; bx++ {
			var sumRe, sumIm float64
			var n int
			for y := by * down; y < (by+1)*down && y < m.Height; y++ {
				for x := bx * down; x < (bx+1)*down && x < m.Width; x++ {
					v := m.Get(x, y).Normal
					if v != 0 {
						sumRe += real(v)
						sumIm += imag(v)
						n++
					}
				}
			}
			if n > 0 {
				c.Normals[by*nw+bx] = complex64(complex(sumRe/float64(n), sumIm/float64(n)))
			}
		}
	}
	return c
}

// normalizedCount is the smooth iteration count: the last iteration plus
// a fractional part derived from the escape log norm.
func normalizedCount(e drillmap.MapEntry) float32 {
	if e.Result != drillmap.Escaped || e.LogNorm <= 0 {
		return float32(e.Last)
	}
	return float32(float64(e.Last) + 1 - math.Log2(e.LogNorm/2))
}
