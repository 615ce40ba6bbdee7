// Package orbit computes and stores the high-precision reference orbit a
// drill round perturbs against.
package orbit

import (
	"context"
	"fmt"

	"github.com/deepdrill/drill/internal/derrors"
	"github.com/deepdrill/drill/internal/drillmap"
	"github.com/deepdrill/drill/internal/progress"
	"github.com/deepdrill/drill/internal/xnum"
	"github.com/deepdrill/drill/internal/xprec"
)

// EscapeRadiusSq is the squared escape radius for |z|^2.
const EscapeRadiusSq = 256.0

// ReferenceIteration caches one step of the reference orbit: the
// high-precision z, its extended form, 2z precomputed for the delta
// recurrence, and the per-iteration glitch tolerance T^2 * |z|^2.
type ReferenceIteration struct {
	Z         xprec.PrecisionComplex
	Ext       xnum.ExtendedComplex
	Ext2      xnum.ExtendedComplex
	GlitchTol xnum.ExtendedDouble

	// DzDc is dz/dc at this step, kept for normal-vector computation.
	DzDc xprec.PrecisionComplex
}

// ReferencePoint is one chosen pixel and its iterated orbit.
type ReferencePoint struct {
	Coord    drillmap.Coord
	Location xprec.PrecisionComplex

	Iterations []ReferenceIteration

	// Skipped is the series-approximation cutoff the driller settles on.
	Skipped int

	Escaped      bool
	TerminalNorm float64
}

// NewReferencePoint builds an un-drilled reference at the given pixel.
func NewReferencePoint(c drillmap.Coord, loc xprec.PrecisionComplex) *ReferencePoint {
	return &ReferencePoint{Coord: c, Location: loc}
}

// Len returns the number of stored iterations.
func (r *ReferencePoint) Len() int {
	return len(r.Iterations)
}

// Drill iterates z <- z^2 + c in high precision from z0 = location,
// appending one ReferenceIteration per step, until |z|^2 reaches the
// escape radius or depth iterations are stored. tolerance is the
// perturbation tolerance T feeding each step's glitch tolerance. The
// cancellation context is polled every progress.PollInterval iterations;
// observed cancellation surfaces ErrUserInterrupt.
func (r *ReferencePoint) Drill(ctx context.Context, depth int, tolerance float64, sink progress.Sink) error {
	tolSq := xnum.NewExtendedDouble(tolerance * tolerance)
	one := xprec.NewPrecisionReal(1)

	z := r.Location
	dzdc := xprec.NewPrecisionComplex(1, 0)
	r.Iterations = r.Iterations[:0]
	r.Escaped = false

	for i := 0; i < depth; i++ {
		if i%progress.PollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: reference orbit at iteration %d", derrors.ErrUserInterrupt, i)
			}
			sink.Update("reference", i, depth)
		}

		ext := z.ExtendedComplex()
		norm := ext.Norm().Reduce()
		r.Iterations = append(r.Iterations, ReferenceIteration{
			Z:         z,
			Ext:       ext,
			Ext2:      ext.MulFloat64(2).Reduce(),
			GlitchTol: tolSq.Mul(norm).Reduce(),
			DzDc:      dzdc,
		})

		nrm := norm.AsDouble()
		if nrm >= EscapeRadiusSq {
			r.Escaped = true
			r.TerminalNorm = nrm
			return nil
		}
		r.TerminalNorm = nrm

		// dz/dc first: it reads the pre-step z.
		zdz := dzdc.Mul(z)
		dzdc = zdz.Add(zdz)
		dzdc.Re = dzdc.Re.Add(one)
		z = z.Square().Add(r.Location)
	}
	return nil
}
