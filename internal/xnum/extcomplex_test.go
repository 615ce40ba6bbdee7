package xnum

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

func closeEnough(got, want complex128, tol float64) bool {
	return cmplx.Abs(got-want) < tol*math.Max(1, cmplx.Abs(want))
}

func TestExtendedComplex_ReduceInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trials := 0; trials < 256; trials++ {
		re := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.Intn(200)-100))
		im := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.Intn(200)-100))
		c := ExtendedComplex{ReMantissa: re, ImMantissa: im, Exponent: int64(rng.Intn(400) - 200)}.Reduce()
		if !c.IsReduced() {
			t.Fatalf("not reduced: %+v", c)
		}
	}
}

func TestExtendedComplex_RoundTrip(t *testing.T) {
	values := []complex128{0, 1, 1i, 1 + 1i, 1e150 + 1e150i, 1e-150 - 1e-150i}
	for _, c := range values {
		got := NewExtendedComplex(c).AsComplex()
		if got != c {
			t.Errorf("round trip %v: got %v", c, got)
		}
	}
}

func TestExtendedComplex_ArithmeticAgreesWithComplex128(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for trials := 0; trials < 512; trials++ {
		a := complex(rng.Float64()*20-10, rng.Float64()*20-10)
		b := complex(rng.Float64()*20-10, rng.Float64()*20-10)
		if b == 0 {
			b = 1
		}
		ea, eb := NewExtendedComplex(a), NewExtendedComplex(b)

		if got, want := ea.Add(eb).Reduce().AsComplex(), a+b; !closeEnough(got, want, 1e-9) {
			t.Errorf("add: got %v want %v", got, want)
		}
		if got, want := ea.Sub(eb).Reduce().AsComplex(), a-b; !closeEnough(got, want, 1e-9) {
			t.Errorf("sub: got %v want %v", got, want)
		}
		if got, want := ea.Mul(eb).Reduce().AsComplex(), a*b; !closeEnough(got, want, 1e-6) {
			t.Errorf("mul: got %v want %v", got, want)
		}
		if got, want := ea.Div(eb).Reduce().AsComplex(), a/b; !closeEnough(got, want, 1e-9) {
			t.Errorf("div: got %v want %v", got, want)
		}
		if got, want := ea.Square().Reduce().AsComplex(), a*a; !closeEnough(got, want, 1e-6) {
			t.Errorf("square: got %v want %v", got, want)
		}
		if got, want := ea.Conjugate().Reduce().AsComplex(), cmplx.Conj(a); !closeEnough(got, want, 1e-12) {
			t.Errorf("conjugate: got %v want %v", got, want)
		}
		if got, want := ea.Reciprocal().Reduce().AsComplex(), 1/a; !closeEnough(got, want, 1e-9) {
			t.Errorf("reciprocal: got %v want %v", got, want)
		}
		if got, want := ea.Norm().Reduce().AsDouble(), real(a)*real(a)+imag(a)*imag(a); math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
			t.Errorf("norm: got %v want %v", got, want)
		}
	}
}

func TestExtendedComplex_Normalize(t *testing.T) {
	c := NewExtendedComplex(complex(3, 4))
	n := c.Normalize()
	if math.Abs(n.Abs().AsDouble()-1) > 1e-9 {
		t.Fatalf("expected unit length, got %v", n.Abs().AsDouble())
	}
}
