// Package xprec wraps math/big.Float into the arbitrary-precision real and
// complex numbers the drill engine computes reference orbits with, sharing
// a mutable process-wide default precision.
package xprec

import (
	"fmt"
	"math"
	"math/big"
	"sync/atomic"

	"github.com/deepdrill/drill/internal/xnum"
)

const minPrecisionBits = 128

var defaultPrec atomic.Uint32

func init() {
	defaultPrec.Store(minPrecisionBits)
}

// SetDefaultPrec sets the process-wide default precision, in bits. It
// must be called with DerivePrecision(zoomBits) before any location value
// is parsed, since PrecisionReal literals constructed afterwards retain
// whatever precision was current at construction time.
func SetDefaultPrec(bits uint) {
	if bits < minPrecisionBits {
		bits = minPrecisionBits
	}
	defaultPrec.Store(uint32(bits))
}

// DefaultPrec returns the current process-wide default precision in bits.
func DefaultPrec() uint {
	return uint(defaultPrec.Load())
}

// DerivePrecision returns the bit width needed for a given magnification:
// max(128, ceil(log2(zoom)) + 64).
func DerivePrecision(zoomLog2 float64) uint {
	bits := uint(math.Ceil(zoomLog2)) + 64
	if bits < minPrecisionBits {
		bits = minPrecisionBits
	}
	return bits
}

// PrecisionReal is an arbitrary-precision real backed by math/big.Float.
type PrecisionReal struct {
	v *big.Float
}

// NewPrecisionReal allocates a PrecisionReal at the current default
// precision, initialized to x.
func NewPrecisionReal(x float64) PrecisionReal {
	return PrecisionReal{v: new(big.Float).SetPrec(DefaultPrec()).SetFloat64(x)}
}

// ParsePrecisionReal parses a decimal string at the current default
// precision, the way location.real/location.imag config values arrive.
func ParsePrecisionReal(s string) (PrecisionReal, error) {
	v, _, err := big.ParseFloat(s, 10, DefaultPrec(), big.ToNearestEven)
	if err != nil {
		return PrecisionReal{}, fmt.Errorf("xprec: parse %q: %w", s, err)
	}
	return PrecisionReal{v: v}, nil
}

// Big returns the underlying *big.Float (shared, not copied).
func (r PrecisionReal) Big() *big.Float { return r.v }

func (r PrecisionReal) ensure() *big.Float {
	if r.v == nil {
		return new(big.Float).SetPrec(DefaultPrec())
	}
	return r.v
}

// Add returns r+s.
func (r PrecisionReal) Add(s PrecisionReal) PrecisionReal {
	out := new(big.Float).SetPrec(DefaultPrec())
	out.Add(r.ensure(), s.ensure())
	return PrecisionReal{v: out}
}

// Sub returns r-s.
func (r PrecisionReal) Sub(s PrecisionReal) PrecisionReal {
	out := new(big.Float).SetPrec(DefaultPrec())
	out.Sub(r.ensure(), s.ensure())
	return PrecisionReal{v: out}
}

// Mul returns r*s.
func (r PrecisionReal) Mul(s PrecisionReal) PrecisionReal {
	out := new(big.Float).SetPrec(DefaultPrec())
	out.Mul(r.ensure(), s.ensure())
	return PrecisionReal{v: out}
}

// Div returns r/s.
func (r PrecisionReal) Div(s PrecisionReal) PrecisionReal {
	out := new(big.Float).SetPrec(DefaultPrec())
	out.Quo(r.ensure(), s.ensure())
	return PrecisionReal{v: out}
}

// Neg returns -r.
func (r PrecisionReal) Neg() PrecisionReal {
	out := new(big.Float).SetPrec(DefaultPrec())
	out.Neg(r.ensure())
	return PrecisionReal{v: out}
}

// Float64 converts to an ordinary float64.
func (r PrecisionReal) Float64() float64 {
	f, _ := r.ensure().Float64()
	return f
}

// ExtendedDouble converts to an ExtendedDouble via the canonical
// frexp-equivalent extraction.
func (r PrecisionReal) ExtendedDouble() xnum.ExtendedDouble {
	return xnum.NewExtendedDoubleFromBigFloat(r.ensure())
}

// String renders r for diagnostics.
func (r PrecisionReal) String() string {
	return r.ensure().Text('g', int(DefaultPrec()/3))
}

// PrecisionComplex is an arbitrary-precision complex number: a pair of
// PrecisionReal components.
type PrecisionComplex struct {
	Re, Im PrecisionReal
}

// NewPrecisionComplex builds a PrecisionComplex from two float64 parts.
func NewPrecisionComplex(re, im float64) PrecisionComplex {
	return PrecisionComplex{Re: NewPrecisionReal(re), Im: NewPrecisionReal(im)}
}

// Add returns c+d.
func (c PrecisionComplex) Add(d PrecisionComplex) PrecisionComplex {
	return PrecisionComplex{Re: c.Re.Add(d.Re), Im: c.Im.Add(d.Im)}
}

// Sub returns c-d.
func (c PrecisionComplex) Sub(d PrecisionComplex) PrecisionComplex {
	return PrecisionComplex{Re: c.Re.Sub(d.Re), Im: c.Im.Sub(d.Im)}
}

// Mul returns c*d using the standard complex product.
func (c PrecisionComplex) Mul(d PrecisionComplex) PrecisionComplex {
	re := c.Re.Mul(d.Re).Sub(c.Im.Mul(d.Im))
	im := c.Re.Mul(d.Im).Add(c.Im.Mul(d.Re))
	return PrecisionComplex{Re: re, Im: im}
}

// Square returns c*c.
func (c PrecisionComplex) Square() PrecisionComplex {
	return c.Mul(c)
}

// NormSq returns re^2+im^2 as a PrecisionReal.
func (c PrecisionComplex) NormSq() PrecisionReal {
	return c.Re.Mul(c.Re).Add(c.Im.Mul(c.Im))
}

// ExtendedComplex converts to an ExtendedComplex, sharing the exponent of
// whichever component dominates after independent frexp-equivalent
// extraction.
func (c PrecisionComplex) ExtendedComplex() xnum.ExtendedComplex {
	re := c.Re.ExtendedDouble()
	im := c.Im.ExtendedDouble()
	return xnum.NewExtendedComplexFromDoubles(re, im)
}

// AsComplex128 converts to an ordinary complex128.
func (c PrecisionComplex) AsComplex128() complex128 {
	return complex(c.Re.Float64(), c.Im.Float64())
}

// String renders c for diagnostics.
func (c PrecisionComplex) String() string {
	return fmt.Sprintf("%s+%si", c.Re.String(), c.Im.String())
}
