package colormap

import (
	"testing"

	"github.com/deepdrill/drill/internal/drillmap"
	"github.com/deepdrill/drill/internal/xprec"
)

func testMap(t *testing.T) *drillmap.DrillMap {
	t.Helper()
	xprec.SetDefaultPrec(128)
	m, err := drillmap.New(4, 4, xprec.NewPrecisionComplex(0, 0), xprec.NewPrecisionReal(0.01))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			m.Set(x, y, drillmap.MapEntry{
				Result:  drillmap.Escaped,
				Last:    int32(y*4 + x),
				LogNorm: 6,
				Normal:  complex(1, 0),
			})
		}
	}
	m.Set(0, 0, drillmap.MapEntry{Result: drillmap.Glitch, Last: 3})
	return m
}

func TestDeriveCopiesIterations(t *testing.T) {
	c := Derive(testMap(t), Options{})
	if c.Width != 4 || c.Height != 4 {
		t.Fatalf("dimensions %dx%d", c.Width, c.Height)
	}
	if c.Iterations[5] != 5 {
		t.Fatalf("iterations[5] = %d", c.Iterations[5])
	}
	if c.Overlay != nil {
		t.Fatal("overlay allocated without the option")
	}
}

func TestDeriveNormalizedCounts(t *testing.T) {
	c := Derive(testMap(t), Options{})
	// Escaped pixels get the smooth count; the glitch pixel keeps its
	// plain iteration count.
	if got := c.Normalized[0]; got != 3 {
		t.Fatalf("normalized[0] = %v, want 3", got)
	}
	// Last + 1 - log2(LogNorm/2) = 5 + 1 - log2(3).
	if got := c.Normalized[5]; got <= 4 || got >= 5 {
		t.Fatalf("normalized[5] = %v, want in (4,5)", got)
	}
}

func TestDeriveOverlay(t *testing.T) {
	c := Derive(testMap(t), Options{Overlays: true})
	if c.Overlay[0] != overlayColors[drillmap.Glitch] {
		t.Fatalf("overlay[0] = %08x", c.Overlay[0])
	}
	if c.Overlay[1] != overlayColors[drillmap.Escaped] {
		t.Fatalf("overlay[1] = %08x", c.Overlay[1])
	}
}

func TestDeriveDownsampledNormals(t *testing.T) {
	c := Derive(testMap(t), Options{NormalDownsample: 2})
	if c.NormalW != 2 || c.NormalH != 2 {
		t.Fatalf("normal grid %dx%d", c.NormalW, c.NormalH)
	}
	// Every populated normal is (1,0); block averages stay (1,0).
	for i, n := range c.Normals {
		if real(n) != 1 || imag(n) != 0 {
			t.Fatalf("normals[%d] = %v", i, n)
		}
	}
}
