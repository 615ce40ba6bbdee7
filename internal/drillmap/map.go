// Package drillmap holds the per-pixel result grid the driller fills in:
// entry records, coordinate/plane translation, mesh enumeration, and the
// compressed binary map format.
package drillmap

import (
	"fmt"

	"github.com/deepdrill/drill/internal/xnum"
	"github.com/deepdrill/drill/internal/xprec"
)

// Maximum drill map dimensions.
const (
	MaxWidth  = 3840
	MaxHeight = 2160
)

// Coord is an integer pixel coordinate, origin top-left, y growing down.
type Coord struct {
	X, Y int
}

// Result classifies how a pixel's drill ended.
type Result uint8

const (
	Unprocessed Result = iota
	Escaped
	MaxDepthReached
	InBulb
	InCardioid
	Periodic
	Attracted
	Glitch
)

// String names the result category for diagnostics and overlays.
func (r Result) String() string {
	switch r {
	case Unprocessed:
		return "unprocessed"
	case Escaped:
		return "escaped"
	case MaxDepthReached:
		return "maxdepth"
	case InBulb:
		return "bulb"
	case InCardioid:
		return "cardioid"
	case Periodic:
		return "periodic"
	case Attracted:
		return "attracted"
	case Glitch:
		return "glitch"
	}
	return "unknown"
}

// MapEntry is the per-pixel drill record.
type MapEntry struct {
	Result Result

	// First is the first iteration actually executed (after series
	// skipping); Last is the final iteration reached.
	First int32
	Last  int32

	// LogNorm is log(|z|^2) at escape time, zero for interior pixels.
	LogNorm float64

	// Derivative is dz/dc at the terminal iteration; Normal is the
	// unit surface normal derived from it. Zero when not computed.
	Derivative complex128
	Normal     complex128
}

// DrillMap is a width x height row-major grid of MapEntry plus the
// complex-plane metadata needed to translate pixel coordinates.
type DrillMap struct {
	Width  int
	Height int

	Center     xprec.PrecisionComplex
	UpperLeft  xprec.PrecisionComplex
	LowerRight xprec.PrecisionComplex

	// PixelDelta is the plane distance between adjacent pixels, kept
	// both in full precision (for reference-point translation) and in
	// extended-range form (for delta arithmetic).
	PixelDelta    xprec.PrecisionReal
	PixelDeltaExt xnum.ExtendedDouble

	entries []MapEntry
}

// New allocates a DrillMap and derives the corner metadata from center
// and pixel delta.
func New(width, height int, center xprec.PrecisionComplex, pixelDelta xprec.PrecisionReal) (*DrillMap, error) {
	if width < 1 || width > MaxWidth {
		return nil, fmt.Errorf("drillmap: width %d out of range 1..%d", width, MaxWidth)
	}
	if height < 1 || height > MaxHeight {
		return nil, fmt.Errorf("drillmap: height %d out of range 1..%d", height, MaxHeight)
	}
	m := &DrillMap{
		Width:      width,
		Height:     height,
		Center:     center,
		PixelDelta: pixelDelta,
		entries:    make([]MapEntry, width*height),
	}
	m.PixelDeltaExt = pixelDelta.ExtendedDouble()
	m.UpperLeft = m.Translate(Coord{0, 0})
	m.LowerRight = m.Translate(Coord{width - 1, height - 1})
	return m, nil
}

// Resize rebuilds the entry buffer for new dimensions, dropping all
// previous results.
func (m *DrillMap) Resize(width, height int) error {
	n, err := New(width, height, m.Center, m.PixelDelta)
	if err != nil {
		return err
	}
	*m = *n
	return nil
}

func (m *DrillMap) check(x, y int) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		panic(fmt.Sprintf("drillmap: coordinate (%d,%d) outside %dx%d", x, y, m.Width, m.Height))
	}
}

// Get returns the entry at (x,y). Panics when out of bounds.
func (m *DrillMap) Get(x, y int) MapEntry {
	m.check(x, y)
	return m.entries[y*m.Width+x]
}

// Set stores the entry at (x,y). Panics when out of bounds.
func (m *DrillMap) Set(x, y int, e MapEntry) {
	m.check(x, y)
	m.entries[y*m.Width+x] = e
}

// Translate maps a pixel coordinate to its complex-plane location:
// center + (coord - image_center) * pixel_delta, with y growing upward
// in the plane.
func (m *DrillMap) Translate(c Coord) xprec.PrecisionComplex {
	dx := xprec.NewPrecisionReal(float64(c.X) - float64(m.Width)/2)
	dy := xprec.NewPrecisionReal(float64(m.Height)/2 - float64(c.Y))
	return xprec.PrecisionComplex{
		Re: m.Center.Re.Add(dx.Mul(m.PixelDelta)),
		Im: m.Center.Im.Add(dy.Mul(m.PixelDelta)),
	}
}

// CoordOf inverts Translate, rounding to the nearest pixel.
func (m *DrillMap) CoordOf(p xprec.PrecisionComplex) Coord {
	dx := p.Re.Sub(m.Center.Re).Div(m.PixelDelta).Float64()
	dy := p.Im.Sub(m.Center.Im).Div(m.PixelDelta).Float64()
	x := int(dx + float64(m.Width)/2 + 0.5)
	y := int(float64(m.Height)/2 - dy + 0.5)
	return Coord{x, y}
}

// DeltaBetween returns (a - b) in plane units as an ExtendedComplex, for
// delta arithmetic against a reference pixel. The imaginary part is
// negated relative to the raw coordinate difference because pixel y grows
// downward while plane y grows upward.
func (m *DrillMap) DeltaBetween(a, b Coord) xnum.ExtendedComplex {
	re := xnum.NewExtendedDouble(float64(a.X - b.X)).Mul(m.PixelDeltaExt)
	im := xnum.NewExtendedDouble(float64(b.Y - a.Y)).Mul(m.PixelDeltaExt)
	return xnum.NewExtendedComplexFromDoubles(re.Reduce(), im.Reduce())
}

// Mesh returns nx*ny equidistant coordinates covering the closed
// rectangle [0,w-1]x[0,h-1], corners included.
func (m *DrillMap) Mesh(nx, ny int) []Coord {
	coords := make([]Coord, 0, nx*ny)
	for iy := 0; iy < ny; iy++ {
		y := meshStep(iy, ny, m.Height)
		for ix := 0; ix < nx; ix++ {
			coords = append(coords, Coord{meshStep(ix, nx, m.Width), y})
		}
	}
	return coords
}

func meshStep(i, n, extent int) int {
	if n <= 1 {
		return 0
	}
	return int(float64(i)*float64(extent-1)/float64(n-1) + 0.5)
}

// CenterCoord returns the pixel closest to the map center.
func (m *DrillMap) CenterCoord() Coord {
	return Coord{m.Width / 2, m.Height / 2}
}

// HasIterations reports whether any pixel carries an iteration count.
func (m *DrillMap) HasIterations() bool {
	for i := range m.entries {
		if m.entries[i].Last != 0 {
			return true
		}
	}
	return false
}

// HasLogNorms reports whether any pixel carries a log norm.
func (m *DrillMap) HasLogNorms() bool {
	for i := range m.entries {
		if m.entries[i].LogNorm != 0 {
			return true
		}
	}
	return false
}

// HasDerivatives reports whether any pixel carries a derivative.
func (m *DrillMap) HasDerivatives() bool {
	for i := range m.entries {
		if m.entries[i].Derivative != 0 {
			return true
		}
	}
	return false
}

// HasNormals reports whether any pixel carries a normal vector.
func (m *DrillMap) HasNormals() bool {
	for i := range m.entries {
		if m.entries[i].Normal != 0 {
			return true
		}
	}
	return false
}
