package xnum

import "math"

// ExtendedComplex represents (reMantissa + imMantissa*i) * 2^exponent: a
// complex number with a shared exponent for both components. Reduced when at
// least one of |reMantissa|, |imMantissa| lies in [0.5,1.0), or both are
// zero with exponent zero.
type ExtendedComplex struct {
	ReMantissa float64
	ImMantissa float64
	Exponent   int64
}

// ZeroComplex is the reduced representation of 0+0i.
var ZeroComplex = ExtendedComplex{}

// NewExtendedComplex builds a reduced ExtendedComplex from a complex128.
func NewExtendedComplex(c complex128) ExtendedComplex {
	return ExtendedComplex{ReMantissa: real(c), ImMantissa: imag(c), Exponent: 0}.Reduce()
}

// NewExtendedComplexParts builds an ExtendedComplex from explicit parts and
// reduces it.
func NewExtendedComplexParts(re, im float64, exponent int64) ExtendedComplex {
	return ExtendedComplex{ReMantissa: re, ImMantissa: im, Exponent: exponent}.Reduce()
}

// NewExtendedComplexFromDoubles combines two ExtendedDoubles (sharing no
// exponent a priori) into one ExtendedComplex with a common exponent.
func NewExtendedComplexFromDoubles(re, im ExtendedDouble) ExtendedComplex {
	c := ExtendedComplex{ReMantissa: re.Mantissa, ImMantissa: 0, Exponent: re.Exponent}
	c = c.Add(ExtendedComplex{ReMantissa: 0, ImMantissa: im.Mantissa, Exponent: im.Exponent})
	return c.Reduce()
}

// AsComplex converts back to an ordinary complex128, saturating outside the
// representable range.
func (c ExtendedComplex) AsComplex() complex128 {
	re := math.Ldexp(c.ReMantissa, int(c.Exponent))
	im := math.Ldexp(c.ImMantissa, int(c.Exponent))
	return complex(re, im)
}

// Reduce rescales both mantissas so the larger-magnitude component lies in
// [0.5, 1.0).
func (c ExtendedComplex) Reduce() ExtendedComplex {
	if c.ReMantissa == 0 && c.ImMantissa == 0 {
		return ExtendedComplex{}
	}
	var refExp int
	if math.Abs(c.ReMantissa) >= math.Abs(c.ImMantissa) {
		_, e := math.Frexp(c.ReMantissa)
		refExp = e
	} else {
		_, e := math.Frexp(c.ImMantissa)
		refExp = e
	}
	scale := math.Ldexp(1, -refExp)
	return ExtendedComplex{
		ReMantissa: c.ReMantissa * scale,
		ImMantissa: c.ImMantissa * scale,
		Exponent:   c.Exponent + int64(refExp),
	}
}

// IsReduced reports whether c already satisfies the reduced invariant.
func (c ExtendedComplex) IsReduced() bool {
	if c.ReMantissa == 0 && c.ImMantissa == 0 {
		return c.Exponent == 0
	}
	re, im := math.Abs(c.ReMantissa), math.Abs(c.ImMantissa)
	return (re >= 0.5 && re < 1.0) || (im >= 0.5 && im < 1.0)
}

// Add aligns exponents (shifting the smaller-exponent operand) then sums
// componentwise. Not automatically reduced.
func (a ExtendedComplex) Add(b ExtendedComplex) ExtendedComplex {
	switch {
	case a.Exponent == b.Exponent:
		return ExtendedComplex{ReMantissa: a.ReMantissa + b.ReMantissa, ImMantissa: a.ImMantissa + b.ImMantissa, Exponent: a.Exponent}
	case a.Exponent > b.Exponent:
		shift := math.Ldexp(1, int(b.Exponent-a.Exponent))
		return ExtendedComplex{ReMantissa: a.ReMantissa + b.ReMantissa*shift, ImMantissa: a.ImMantissa + b.ImMantissa*shift, Exponent: a.Exponent}
	default:
		shift := math.Ldexp(1, int(a.Exponent-b.Exponent))
		return ExtendedComplex{ReMantissa: a.ReMantissa*shift + b.ReMantissa, ImMantissa: a.ImMantissa*shift + b.ImMantissa, Exponent: b.Exponent}
	}
}

// Sub is Add with b negated.
func (a ExtendedComplex) Sub(b ExtendedComplex) ExtendedComplex {
	return a.Add(b.Neg())
}

// Neg negates both components.
func (c ExtendedComplex) Neg() ExtendedComplex {
	return ExtendedComplex{ReMantissa: -c.ReMantissa, ImMantissa: -c.ImMantissa, Exponent: c.Exponent}
}

// Mul multiplies two complex values: mantissas combine via the standard
// complex product, exponents add. Not automatically reduced.
func (a ExtendedComplex) Mul(b ExtendedComplex) ExtendedComplex {
	re := a.ReMantissa*b.ReMantissa - a.ImMantissa*b.ImMantissa
	im := a.ReMantissa*b.ImMantissa + a.ImMantissa*b.ReMantissa
	return ExtendedComplex{ReMantissa: re, ImMantissa: im, Exponent: a.Exponent + b.Exponent}
}

// Conjugate negates the imaginary component.
func (c ExtendedComplex) Conjugate() ExtendedComplex {
	return ExtendedComplex{ReMantissa: c.ReMantissa, ImMantissa: -c.ImMantissa, Exponent: c.Exponent}
}

// Square returns c*c.
func (c ExtendedComplex) Square() ExtendedComplex {
	return ExtendedComplex{
		ReMantissa: c.ReMantissa*c.ReMantissa - c.ImMantissa*c.ImMantissa,
		ImMantissa: 2 * c.ReMantissa * c.ImMantissa,
		Exponent:   2 * c.Exponent,
	}
}

// Norm returns |c|^2 as an ExtendedDouble. Not automatically reduced.
func (c ExtendedComplex) Norm() ExtendedDouble {
	return ExtendedDouble{
		Mantissa: c.ReMantissa*c.ReMantissa + c.ImMantissa*c.ImMantissa,
		Exponent: 2 * c.Exponent,
	}
}

// Abs returns |c| as an ExtendedDouble.
func (c ExtendedComplex) Abs() ExtendedDouble {
	return c.Norm().Sqrt()
}

// Log2 returns an ordinary float64 approximation of log2(|c|).
func (c ExtendedComplex) Log2() float64 {
	return c.Abs().Log2()
}

// Reciprocal returns 1/c via conj(c)/|c|^2.
func (c ExtendedComplex) Reciprocal() ExtendedComplex {
	n := c.Norm().Reduce()
	ninv := n.Reciprocal()
	return c.Conjugate().ScalarMulDouble(ninv)
}

// Div returns a/b.
func (a ExtendedComplex) Div(b ExtendedComplex) ExtendedComplex {
	return a.Mul(b.Reciprocal())
}

// ScalarMulDouble multiplies by an ExtendedDouble scalar.
func (c ExtendedComplex) ScalarMulDouble(d ExtendedDouble) ExtendedComplex {
	return ExtendedComplex{ReMantissa: c.ReMantissa * d.Mantissa, ImMantissa: c.ImMantissa * d.Mantissa, Exponent: c.Exponent + d.Exponent}
}

// ScalarDivDouble divides by an ExtendedDouble scalar.
func (c ExtendedComplex) ScalarDivDouble(d ExtendedDouble) ExtendedComplex {
	return c.ScalarMulDouble(d.Reciprocal())
}

// MulFloat64 scales by an ordinary float64 scalar.
func (c ExtendedComplex) MulFloat64(s float64) ExtendedComplex {
	return ExtendedComplex{ReMantissa: c.ReMantissa * s, ImMantissa: c.ImMantissa * s, Exponent: c.Exponent}
}

// Normalize returns a unit-length vector in the same direction as c, used
// for normal-map output.
func (c ExtendedComplex) Normalize() ExtendedComplex {
	inv := c.Abs().Reciprocal()
	return c.ScalarMulDouble(inv).Reduce()
}
