package driller

import (
	"context"
	"fmt"
	"math"

	"github.com/deepdrill/drill/internal/derrors"
	"github.com/deepdrill/drill/internal/drillmap"
	"github.com/deepdrill/drill/internal/orbit"
	"github.com/deepdrill/drill/internal/progress"
	"github.com/deepdrill/drill/internal/xnum"
)

// periodSampleStart is the offset from a pixel's starting iteration at
// which the periodicity sample is first refreshed (the starting delta is
// the first sample); each refresh multiplies the sampling point by 3/2 so
// the check spans exponentially growing windows.
const periodSampleStart = 16

// drillDelta iterates one pixel against the current reference using the
// perturbation recurrence, returning its map entry and the number of
// iterations executed.
func (d *Driller) drillDelta(c drillmap.Coord) (drillmap.MapEntry, int) {
	ref := d.ref
	one := xnum.NewExtendedComplex(1)
	d0 := d.m.DeltaBetween(c, ref.Coord)

	it := ref.Skipped
	dn, ddn := d0, one
	if it > 0 {
		dn = d.coeff.Evaluate(d0, it)
		ddn = d.coeff.EvaluateDeriv(d0, it)
	}
	entry := drillmap.MapEntry{First: int32(it)}

	// df/dz for the attractor check; unlike df/dc it decays toward an
	// attracting cycle.
	derzn := one

	sampled := dn
	sampleAt := it + periodSampleStart
	steps := 0

	for it+1 < ref.Len() {
		it++
		steps++
		prev := &ref.Iterations[it-1]

		twoZD := prev.Ext2.Add(dn.MulFloat64(2)).Reduce()
		ddn = ddn.Mul(twoZD).Add(one).Reduce()
		if d.cfg.AttractorCheckEnable {
			derzn = derzn.Mul(twoZD).Reduce()
		}
		dn = dn.Mul(prev.Ext2.Add(dn).Reduce()).Add(d0).Reduce()

		cur := &ref.Iterations[it]
		zn := cur.Ext.Add(dn).Reduce()
		nrm := zn.Norm().Reduce()

		if nrm.Cmp(cur.GlitchTol) < 0 {
			entry.Result = drillmap.Glitch
			entry.Last = int32(it)
			return entry, steps
		}
		if d.cfg.PeriodCheckEnable {
			if dn.Sub(sampled).Reduce().Norm().Reduce().AsDouble() < d.cfg.PeriodCheckTolerance {
				entry.Result = drillmap.Periodic
				entry.Last = int32(it)
				return entry, steps
			}
			if it == sampleAt {
				sampled = dn
				sampleAt = sampleAt * 3 / 2
			}
		}
		if d.cfg.AttractorCheckEnable && derzn.Norm().Reduce().AsDouble() < d.cfg.AttractorCheckTolerance {
			entry.Result = drillmap.Attracted
			entry.Last = int32(it)
			return entry, steps
		}
		if nf := nrm.AsDouble(); nf >= orbit.EscapeRadiusSq {
			entry.Result = drillmap.Escaped
			entry.Last = int32(it)
			entry.LogNorm = math.Log(nf)
			entry.Derivative = ddn.AsComplex()
			entry.Normal = zn.Div(ddn).Normalize().AsComplex()
			return entry, steps
		}
	}

	entry.Last = int32(it)
	if ref.Len() >= d.cfg.LocationDepth {
		entry.Result = drillmap.MaxDepthReached
	} else {
		// The reference escaped before reaching depth, so this pixel
		// cannot be iterated further against it.
		entry.Result = drillmap.Glitch
	}
	return entry, steps
}

// probeSkip runs the plain delta recurrence on one probe pixel, comparing
// it against the series polynomial at every step, and returns the largest
// iteration count the approximation may safely replace.
func (d *Driller) probeSkip(ctx context.Context, p drillmap.Coord) (int, error) {
	ref := d.ref
	d0 := d.m.DeltaBetween(p, ref.Coord)
	dn := d0
	tol := xnum.NewExtendedDouble(d.cfg.ApproximationTolerance)

	limit := d.coeff.Rows()
	if n := ref.Len(); n < limit {
		limit = n
	}
	for i := 1; i < limit; i++ {
		if i%progress.PollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, fmt.Errorf("%w: probe (%d,%d)", derrors.ErrUserInterrupt, p.X, p.Y)
			}
		}
		prev := &ref.Iterations[i-1]
		dn = dn.Mul(prev.Ext2.Add(dn).Reduce()).Add(d0).Reduce()

		den := dn.Norm().Reduce()
		if den.Mantissa == 0 {
			continue
		}
		approx := d.coeff.Evaluate(d0, i)
		relErr := approx.Sub(dn).Reduce().Norm().Div(den).Reduce()
		if relErr.Cmp(tol) > 0 {
			if i < 4 {
				return 0, nil
			}
			return i - 4, nil
		}
	}
	return limit, nil
}
