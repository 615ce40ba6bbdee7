package orbit

import (
	"context"
	"errors"
	"testing"

	"github.com/deepdrill/drill/internal/derrors"
	"github.com/deepdrill/drill/internal/drillmap"
	"github.com/deepdrill/drill/internal/progress"
	"github.com/deepdrill/drill/internal/xprec"
)

func TestDrillBoundedOrbit(t *testing.T) {
	xprec.SetDefaultPrec(128)
	ref := NewReferencePoint(drillmap.Coord{}, xprec.NewPrecisionComplex(0, 0))
	if err := ref.Drill(context.Background(), 100, 1e-6, progress.Discard); err != nil {
		t.Fatalf("drill: %v", err)
	}
	if ref.Escaped {
		t.Fatal("orbit of c=0 cannot escape")
	}
	if ref.Len() != 100 {
		t.Fatalf("len = %d, want 100", ref.Len())
	}
	for i, it := range ref.Iterations {
		if it.Ext.Norm().AsDouble() != 0 {
			t.Fatalf("iteration %d: orbit of c=0 must stay at 0", i)
		}
		if it.GlitchTol.AsDouble() != 0 {
			t.Fatalf("iteration %d: tolerance must be 0 for a zero orbit", i)
		}
	}
}

func TestDrillEscapingOrbit(t *testing.T) {
	xprec.SetDefaultPrec(128)
	ref := NewReferencePoint(drillmap.Coord{}, xprec.NewPrecisionComplex(3, 0))
	if err := ref.Drill(context.Background(), 100, 1e-6, progress.Discard); err != nil {
		t.Fatalf("drill: %v", err)
	}
	if !ref.Escaped {
		t.Fatal("orbit of c=3 must escape")
	}
	// z: 3, 12, 147; |z|^2 hits 256 at the third entry.
	if ref.Len() != 3 {
		t.Fatalf("len = %d, want 3", ref.Len())
	}
	if ref.TerminalNorm < EscapeRadiusSq {
		t.Fatalf("terminal norm %v below escape radius", ref.TerminalNorm)
	}

	// dz/dc: 1, 2*3*1+1 = 7, 2*12*7+1 = 169.
	want := []float64{1, 7, 169}
	for i, w := range want {
		got := ref.Iterations[i].DzDc.Re.Float64()
		if got != w {
			t.Errorf("dz/dc[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestDrillGlitchTolerance(t *testing.T) {
	xprec.SetDefaultPrec(128)
	tol := 1e-6
	ref := NewReferencePoint(drillmap.Coord{}, xprec.NewPrecisionComplex(-0.5, 0.1))
	if err := ref.Drill(context.Background(), 50, tol, progress.Discard); err != nil {
		t.Fatalf("drill: %v", err)
	}
	for i, it := range ref.Iterations {
		want := tol * tol * it.Ext.Norm().Reduce().AsDouble()
		got := it.GlitchTol.AsDouble()
		if diff := got - want; diff > 1e-12*want || diff < -1e-12*want {
			t.Fatalf("iteration %d: glitch tol %v, want %v", i, got, want)
		}
	}
}

func TestDrillCancellation(t *testing.T) {
	xprec.SetDefaultPrec(128)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ref := NewReferencePoint(drillmap.Coord{}, xprec.NewPrecisionComplex(0, 0))
	err := ref.Drill(ctx, 100, 1e-6, progress.Discard)
	if !errors.Is(err, derrors.ErrUserInterrupt) {
		t.Fatalf("err = %v, want ErrUserInterrupt", err)
	}
}
