// Package xnum implements extended-range floating point: a mantissa/exponent
// pair that can represent magnitudes far outside the range of float64, at a
// fraction of the cost of arbitrary-precision arithmetic.
package xnum

import (
	"math"
	"math/big"
)

// ExtendedDouble represents mantissa*2^exponent. When reduced, mantissa is
// zero (with exponent zero) or satisfies 0.5 <= |mantissa| < 1.0.
type ExtendedDouble struct {
	Mantissa float64
	Exponent int64
}

// Zero is the reduced representation of 0.
var Zero = ExtendedDouble{}

// NewExtendedDouble builds a reduced ExtendedDouble from a float64.
func NewExtendedDouble(x float64) ExtendedDouble {
	if x == 0 {
		return ExtendedDouble{}
	}
	m, e := math.Frexp(x)
	return ExtendedDouble{Mantissa: m, Exponent: int64(e)}
}

// NewExtendedDoubleParts builds an ExtendedDouble from an explicit
// mantissa/exponent pair and reduces it.
func NewExtendedDoubleParts(mantissa float64, exponent int64) ExtendedDouble {
	return ExtendedDouble{Mantissa: mantissa, Exponent: exponent}.Reduce()
}

// NewExtendedDoubleFromBigFloat extracts (mantissa, exponent) from an
// arbitrary-precision float the way frexp does: v == mantissa * 2^exponent
// with 0.5 <= |mantissa| < 1.0.
func NewExtendedDoubleFromBigFloat(v *big.Float) ExtendedDouble {
	if v.Sign() == 0 {
		return ExtendedDouble{}
	}
	mant := new(big.Float).SetPrec(v.Prec())
	exp := v.MantExp(mant)
	m, _ := mant.Float64()
	return ExtendedDouble{Mantissa: m, Exponent: int64(exp)}.Reduce()
}

// Reduce restores the invariant: mantissa == 0 implies exponent == 0,
// otherwise 0.5 <= |mantissa| < 1.0.
func (d ExtendedDouble) Reduce() ExtendedDouble {
	if d.Mantissa == 0 {
		return ExtendedDouble{}
	}
	m, e := math.Frexp(d.Mantissa)
	return ExtendedDouble{Mantissa: m, Exponent: d.Exponent + int64(e)}
}

// IsReduced reports whether d already satisfies the reduced invariant.
func (d ExtendedDouble) IsReduced() bool {
	if d.Mantissa == 0 {
		return d.Exponent == 0
	}
	a := math.Abs(d.Mantissa)
	return a >= 0.5 && a < 1.0
}

// AsDouble converts back to float64, saturating to 0 or +/-Inf outside the
// representable range.
func (d ExtendedDouble) AsDouble() float64 {
	return math.Ldexp(d.Mantissa, int(d.Exponent))
}

// Add shifts before adding: the operand with the
// smaller exponent has its mantissa scaled by 2^(deltaExp) before the sum is
// taken under the larger exponent. The result is not automatically reduced.
func (a ExtendedDouble) Add(b ExtendedDouble) ExtendedDouble {
	switch {
	case a.Exponent == b.Exponent:
		return ExtendedDouble{Mantissa: a.Mantissa + b.Mantissa, Exponent: a.Exponent}
	case a.Exponent > b.Exponent:
		shift := math.Ldexp(1, int(b.Exponent-a.Exponent))
		return ExtendedDouble{Mantissa: a.Mantissa + b.Mantissa*shift, Exponent: a.Exponent}
	default:
		shift := math.Ldexp(1, int(a.Exponent-b.Exponent))
		return ExtendedDouble{Mantissa: a.Mantissa*shift + b.Mantissa, Exponent: b.Exponent}
	}
}

// Sub is Add with b negated.
func (a ExtendedDouble) Sub(b ExtendedDouble) ExtendedDouble {
	return a.Add(b.Neg())
}

// Neg negates the mantissa; the result needs no reduction.
func (d ExtendedDouble) Neg() ExtendedDouble {
	return ExtendedDouble{Mantissa: -d.Mantissa, Exponent: d.Exponent}
}

// Mul multiplies mantissas and adds exponents. Not automatically reduced.
func (a ExtendedDouble) Mul(b ExtendedDouble) ExtendedDouble {
	return ExtendedDouble{Mantissa: a.Mantissa * b.Mantissa, Exponent: a.Exponent + b.Exponent}
}

// Div divides mantissas and subtracts exponents. Not automatically reduced.
func (a ExtendedDouble) Div(b ExtendedDouble) ExtendedDouble {
	return ExtendedDouble{Mantissa: a.Mantissa / b.Mantissa, Exponent: a.Exponent - b.Exponent}
}

// MulFloat64 scales by an ordinary float64 scalar.
func (d ExtendedDouble) MulFloat64(s float64) ExtendedDouble {
	return NewExtendedDouble(s).Mul(d)
}

// DivFloat64 divides by an ordinary float64 scalar.
func (d ExtendedDouble) DivFloat64(s float64) ExtendedDouble {
	return d.Div(NewExtendedDouble(s))
}

// Reciprocal returns 1/d.
func (d ExtendedDouble) Reciprocal() ExtendedDouble {
	return ExtendedDouble{Mantissa: 1 / d.Mantissa, Exponent: -d.Exponent}
}

// Square returns d*d.
func (d ExtendedDouble) Square() ExtendedDouble {
	return ExtendedDouble{Mantissa: d.Mantissa * d.Mantissa, Exponent: 2 * d.Exponent}
}

// Sqrt returns the non-negative square root of d, assuming d >= 0.
func (d ExtendedDouble) Sqrt() ExtendedDouble {
	if d.Mantissa == 0 {
		return ExtendedDouble{}
	}
	m, e := d.Mantissa, d.Exponent
	if e%2 != 0 {
		m *= 2
		e--
	}
	return ExtendedDouble{Mantissa: math.Sqrt(m), Exponent: e / 2}.Reduce()
}

// Abs returns |d|.
func (d ExtendedDouble) Abs() ExtendedDouble {
	return ExtendedDouble{Mantissa: math.Abs(d.Mantissa), Exponent: d.Exponent}
}

// Log2 returns an ordinary float64 approximation of log2(|d|).
func (d ExtendedDouble) Log2() float64 {
	if d.Mantissa == 0 {
		return math.Inf(-1)
	}
	return float64(d.Exponent) + math.Log2(math.Abs(d.Mantissa))
}

// Sign returns -1, 0 or 1 according to the sign of the mantissa.
func (d ExtendedDouble) Sign() int {
	switch {
	case d.Mantissa > 0:
		return 1
	case d.Mantissa < 0:
		return -1
	default:
		return 0
	}
}

// Cmp compares two reduced ExtendedDoubles, returning -1, 0 or 1.
func (a ExtendedDouble) Cmp(b ExtendedDouble) int {
	as, bs := a.Sign(), b.Sign()
	if as != bs {
		if as < bs {
			return -1
		}
		return 1
	}
	if as == 0 {
		return 0
	}
	if as > 0 {
		if a.Exponent != b.Exponent {
			if a.Exponent < b.Exponent {
				return -1
			}
			return 1
		}
		switch {
		case a.Mantissa < b.Mantissa:
			return -1
		case a.Mantissa > b.Mantissa:
			return 1
		default:
			return 0
		}
	}
	// Both negative: the larger exponent is the more negative (smaller) value.
	if a.Exponent != b.Exponent {
		if a.Exponent > b.Exponent {
			return -1
		}
		return 1
	}
	switch {
	case a.Mantissa < b.Mantissa:
		return -1
	case a.Mantissa > b.Mantissa:
		return 1
	default:
		return 0
	}
}
