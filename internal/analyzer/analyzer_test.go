package analyzer

import (
	"strings"
	"testing"

	"github.com/deepdrill/drill/internal/drillmap"
	"github.com/deepdrill/drill/internal/xprec"
)

func TestAnalyze(t *testing.T) {
	xprec.SetDefaultPrec(128)
	m, err := drillmap.New(2, 2, xprec.NewPrecisionComplex(0, 0), xprec.NewPrecisionReal(0.01))
	if err != nil {
		t.Fatal(err)
	}
	m.Set(0, 0, drillmap.MapEntry{Result: drillmap.InCardioid})
	m.Set(1, 0, drillmap.MapEntry{Result: drillmap.Escaped, First: 10, Last: 40})
	m.Set(0, 1, drillmap.MapEntry{Result: drillmap.MaxDepthReached, Last: 100})
	m.Set(1, 1, drillmap.MapEntry{Result: drillmap.Glitch, Last: 25})

	a := Analyze(m, 100)
	if a.Spots.Total != 4 || a.Spots.Interior != 2 || a.Spots.Exterior != 1 || a.Spots.Glitches != 1 {
		t.Fatalf("spots = %+v", a.Spots)
	}
	if a.OptSpots.Cardioid != 1 || a.OptSpots.Approximations != 1 {
		t.Fatalf("optspots = %+v", a.OptSpots)
	}
	// Escaped 40 + max depth 100 + cardioid credited with the full 100.
	if a.Iterations.Total != 240 {
		t.Fatalf("iterations = %+v", a.Iterations)
	}
	// Cardioid saved 100, approximation skipped the first 10.
	if a.Saved.Total != 110 || a.Saved.Bulb != 0 || a.Saved.Cardioid != 100 || a.Saved.Approximations != 10 {
		t.Fatalf("saved = %+v", a.Saved)
	}
}

func TestPrintMentionsClasses(t *testing.T) {
	var sb strings.Builder
	Analysis{Width: 2, Height: 2}.Print(&sb)
	out := sb.String()
	for _, want := range []string{"interior", "glitches", "cardioid", "saved"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
