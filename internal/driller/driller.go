// Package driller runs the top-level drill loop: reference selection,
// series approximation, perturbed per-pixel iteration, and glitch
// recovery across rounds.
package driller

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/deepdrill/drill/internal/config"
	"github.com/deepdrill/drill/internal/derrors"
	"github.com/deepdrill/drill/internal/drillmap"
	"github.com/deepdrill/drill/internal/measure"
	"github.com/deepdrill/drill/internal/orbit"
	"github.com/deepdrill/drill/internal/progress"
	"github.com/deepdrill/drill/internal/rng"
	"github.com/deepdrill/drill/internal/series"
)

// Driller owns one drill map for its lifetime and fills it in.
type Driller struct {
	cfg  config.Options
	m    *drillmap.DrillMap
	rnd  *rng.RNG
	sink progress.Sink

	ref   *orbit.ReferencePoint
	coeff *series.Coefficients
}

// New creates a driller over the given map. sink may be nil.
func New(cfg config.Options, m *drillmap.DrillMap, sink progress.Sink) *Driller {
	if sink == nil {
		sink = progress.Discard
	}
	return &Driller{
		cfg:  cfg,
		m:    m,
		rnd:  rng.NewRNG(cfg.Seed),
		sink: sink,
	}
}

// Drill runs the round loop until the remaining glitch set is within the
// badpixels budget or perturbation.rounds is exhausted. Pixels still
// unresolved at exit keep their Glitch classification.
func (d *Driller) Drill(ctx context.Context) error {
	remaining := d.areaCheckFilter()
	limit := int(float64(d.m.Width*d.m.Height) * d.cfg.ImageBadPixels)

	for round := 1; round <= d.cfg.PerturbationRounds; round++ {
		if len(remaining) <= limit {
			break
		}
		ref := d.pickReference(round, remaining)
		if err := ref.Drill(ctx, d.cfg.LocationDepth, d.cfg.PerturbationTolerance, d.sink); err != nil {
			return fmt.Errorf("round %d ref=(%d,%d): %w", round, ref.Coord.X, ref.Coord.Y, err)
		}
		d.ref = ref
		d.coeff = nil
		if d.cfg.ApproximationEnable && ref.Len() >= 2 {
			d.coeff = series.Compute(ref, d.cfg.ApproximationCoefficients, d.cfg.LocationDepth)
			skipped, err := d.probeSkipAll(ctx)
			if err != nil {
				return fmt.Errorf("round %d ref=(%d,%d): %w", round, ref.Coord.X, ref.Coord.Y, err)
			}
			ref.Skipped = clamp(skipped, 0, ref.Len()-2)
		}

		glitches, err := d.drillRound(ctx, remaining)
		if err != nil {
			return fmt.Errorf("round %d ref=(%d,%d): %w", round, ref.Coord.X, ref.Coord.Y, err)
		}
		measure.Add("drill.rounds", 1)
		measure.Add("drill.glitches", uint64(len(glitches)))
		d.sink.Update("round", round, d.cfg.PerturbationRounds)
		remaining = glitches
	}
	return nil
}

// pickReference chooses the image center in round 1 and a uniform random
// glitch from the prior round afterwards.
func (d *Driller) pickReference(round int, remaining []drillmap.Coord) *orbit.ReferencePoint {
	var c drillmap.Coord
	if round == 1 || len(remaining) == 0 {
		c = d.m.CenterCoord()
	} else {
		c = remaining[d.rnd.Intn(len(remaining))]
	}
	return orbit.NewReferencePoint(c, d.m.Translate(c))
}

// probeSkipAll evaluates the series cutoff on a 2x2 corner mesh and
// returns the minimum across probes.
func (d *Driller) probeSkipAll(ctx context.Context) (int, error) {
	skipped := d.coeff.Rows()
	for _, p := range d.m.Mesh(2, 2) {
		s, err := d.probeSkip(ctx, p)
		if err != nil {
			return 0, err
		}
		if s < skipped {
			skipped = s
		}
	}
	return skipped, nil
}

// drillRound iterates every remaining pixel against the current
// reference. Pixels are independent within a round, so the loop fans out
// over a bounded worker pool; each worker writes only its own map
// entries. The returned glitch list is sorted so reference selection
// stays reproducible under a fixed seed.
func (d *Driller) drillRound(ctx context.Context, pixels []drillmap.Coord) ([]drillmap.Coord, error) {
	var (
		mu       sync.Mutex
		glitches []drillmap.Coord
		iters    uint64
	)
	jobs := make(chan drillmap.Coord)
	var wg sync.WaitGroup
	workers := runtime.NumCPU()
	if workers > len(pixels) && len(pixels) > 0 {
		workers = len(pixels)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var localIters uint64
			for c := range jobs {
				entry, n := d.drillDelta(c)
				localIters += uint64(n)
				d.m.Set(c.X, c.Y, entry)
				if entry.Result == drillmap.Glitch {
					mu.Lock()
					glitches = append(glitches, c)
					mu.Unlock()
				}
			}
			mu.Lock()
			iters += localIters
			mu.Unlock()
		}()
	}

	var interrupted bool
feed:
	for _, c := range pixels {
		select {
		case jobs <- c:
		case <-ctx.Done():
			interrupted = true
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	measure.Add("drill.iterations", iters)
	if interrupted {
		return nil, derrors.ErrUserInterrupt
	}
	sort.Slice(glitches, func(i, j int) bool {
		a, b := glitches[i], glitches[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return glitches, nil
}

// Skipped reports the series cutoff of the most recent reference, for
// diagnostics.
func (d *Driller) Skipped() int {
	if d.ref == nil {
		return 0
	}
	return d.ref.Skipped
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
