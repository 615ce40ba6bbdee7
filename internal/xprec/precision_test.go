package xprec

import (
	"math"
	"testing"
)

func TestDerivePrecision(t *testing.T) {
	cases := []struct {
		zoomLog2 float64
		want     uint
	}{
		{0, 128},
		{10, 128},
		{1000, 1064},
	}
	for _, c := range cases {
		if got := DerivePrecision(c.zoomLog2); got != c.want {
			t.Errorf("DerivePrecision(%v) = %d, want %d", c.zoomLog2, got, c.want)
		}
	}
}

func TestPrecisionReal_RoundTripExtendedDouble(t *testing.T) {
	SetDefaultPrec(256)
	for _, x := range []float64{1, -1, 0.5, 123.456, 1e30, -1e-30} {
		r := NewPrecisionReal(x)
		got := r.ExtendedDouble().AsDouble()
		if math.Abs(got-x) > math.Abs(x)*1e-12+1e-300 {
			t.Errorf("round trip %v: got %v", x, got)
		}
	}
}

func TestPrecisionComplex_Arithmetic(t *testing.T) {
	SetDefaultPrec(256)
	a := NewPrecisionComplex(1, 2)
	b := NewPrecisionComplex(3, -1)
	sum := a.Add(b).AsComplex128()
	if sum != complex(4, 1) {
		t.Fatalf("add: got %v", sum)
	}
	prod := a.Mul(b).AsComplex128()
	want := complex(1, 2) * complex(3, -1)
	if math.Abs(real(prod)-real(want)) > 1e-9 || math.Abs(imag(prod)-imag(want)) > 1e-9 {
		t.Fatalf("mul: got %v want %v", prod, want)
	}
}

func TestParsePrecisionReal(t *testing.T) {
	SetDefaultPrec(256)
	r, err := ParsePrecisionReal("-0.7436438870371587")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Float64()-(-0.7436438870371587)) > 1e-12 {
		t.Fatalf("got %v", r.Float64())
	}
	if _, err := ParsePrecisionReal("not-a-number"); err == nil {
		t.Fatal("expected parse error")
	}
}
