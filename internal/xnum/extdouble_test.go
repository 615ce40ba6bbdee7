package xnum

import (
	"math"
	"math/big"
	"math/rand"
	"testing"
)

func TestExtendedDouble_ReduceInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trials := 0; trials < 256; trials++ {
		m := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.Intn(200)-100))
		e := int64(rng.Intn(400) - 200)
		d := ExtendedDouble{Mantissa: m, Exponent: e}.Reduce()
		if !d.IsReduced() {
			t.Fatalf("not reduced: %+v (from m=%v e=%v)", d, m, e)
		}
		if d.Reduce() != d {
			t.Fatalf("reduce not idempotent: %+v -> %+v", d, d.Reduce())
		}
	}
}

func TestExtendedDouble_RoundTripFloat64(t *testing.T) {
	values := []float64{0, 1, -1, 0.5, 1.5, 1e300, 1e-300, -1e-30, 123.456}
	for _, x := range values {
		d := NewExtendedDouble(x)
		if got := d.AsDouble(); got != x {
			t.Errorf("round trip %v: got %v", x, got)
		}
	}
}

func TestExtendedDouble_RoundTripBigFloat(t *testing.T) {
	r := new(big.Float).SetPrec(256).SetFloat64(3.25)
	d := NewExtendedDoubleFromBigFloat(r)
	want, _ := r.Float64()
	got := d.AsDouble()
	if math.Abs(got-want) > want*math.Pow(2, -52) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExtendedDouble_ArithmeticAgreesWithFloat64(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trials := 0; trials < 512; trials++ {
		a := rng.Float64()*200 - 100
		b := rng.Float64()*200 - 100
		if b == 0 {
			b = 1
		}
		ea, eb := NewExtendedDouble(a), NewExtendedDouble(b)

		if got, want := ea.Add(eb).Reduce().AsDouble(), a+b; math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("add: got %v want %v", got, want)
		}
		if got, want := ea.Sub(eb).Reduce().AsDouble(), a-b; math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("sub: got %v want %v", got, want)
		}
		if got, want := ea.Mul(eb).Reduce().AsDouble(), a*b; math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
			t.Errorf("mul: got %v want %v", got, want)
		}
		if got, want := ea.Div(eb).Reduce().AsDouble(), a/b; math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("div: got %v want %v", got, want)
		}
		if got, want := ea.Square().Reduce().AsDouble(), a*a; math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
			t.Errorf("square: got %v want %v", got, want)
		}
		if got, want := ea.Reciprocal().Reduce().AsDouble(), 1/a; math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("reciprocal: got %v want %v", got, want)
		}
	}
}

func TestExtendedDouble_Cmp(t *testing.T) {
	cases := []struct {
		a, b float64
		want int
	}{
		{1, 2, -1},
		{2, 1, 1},
		{1, 1, 0},
		{-1, 1, -1},
		{-2, -1, -1},
		{0, 1, -1},
		{0, -1, 1},
		{0, 0, 0},
	}
	for _, c := range cases {
		got := NewExtendedDouble(c.a).Cmp(NewExtendedDouble(c.b))
		if got != c.want {
			t.Errorf("Cmp(%v,%v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestExtendedDouble_Sqrt(t *testing.T) {
	for _, x := range []float64{4, 2, 0.25, 1e100, 1e-100, 0} {
		got := NewExtendedDouble(x).Sqrt().AsDouble()
		want := math.Sqrt(x)
		if math.Abs(got-want) > want*1e-9+1e-300 {
			t.Errorf("sqrt(%v): got %v want %v", x, got, want)
		}
	}
}
