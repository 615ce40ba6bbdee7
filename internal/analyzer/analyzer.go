// Package analyzer summarizes a finished drill map: how many pixels
// landed in each class, how much iteration work was spent, and how much
// the shortcuts (area check, series skipping, period and attractor
// detection) saved.
package analyzer

import (
	"fmt"
	"io"

	"github.com/deepdrill/drill/internal/drillmap"
)

// Spots counts pixels by outcome class.
type Spots struct {
	Total       int64 `json:"total"`
	Interior    int64 `json:"interior"`
	Exterior    int64 `json:"exterior"`
	Glitches    int64 `json:"glitches"`
	Unprocessed int64 `json:"unprocessed"`
}

// OptSpots counts pixels resolved by a shortcut instead of a full drill.
type OptSpots struct {
	Total          int64 `json:"total"`
	Bulb           int64 `json:"bulb"`
	Cardioid       int64 `json:"cardioid"`
	Periods        int64 `json:"periods"`
	Attractors     int64 `json:"attractors"`
	Approximations int64 `json:"approximations"`
}

// Iterations sums the iteration work represented by the map.
type Iterations struct {
	Total    int64 `json:"total"`
	Interior int64 `json:"interior"`
	Exterior int64 `json:"exterior"`
}

// Saved sums the iterations the shortcuts avoided.
type Saved struct {
	Total          int64 `json:"total"`
	Bulb           int64 `json:"bulb"`
	Cardioid       int64 `json:"cardioid"`
	Periods        int64 `json:"periods"`
	Attractors     int64 `json:"attractors"`
	Approximations int64 `json:"approximations"`
}

// Analysis is the aggregate over one drill map.
type Analysis struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Spots      Spots      `json:"spots"`
	OptSpots   OptSpots   `json:"optspots"`
	Iterations Iterations `json:"iterations"`
	Saved      Saved      `json:"saved"`
}

// Analyze scans the map. depth is the iteration budget the map was
// drilled with; interior shortcuts are credited with the iterations a
// full drill to depth would have cost.
func Analyze(m *drillmap.DrillMap, depth int) Analysis {
	a := Analysis{Width: m.Width, Height: m.Height}
	limit := int64(depth)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			e := m.Get(x, y)
			a.Spots.Total++

			if e.First > 0 {
				a.OptSpots.Approximations++
				a.Saved.Approximations += int64(e.First)
				a.Saved.Total += int64(e.First)
			}

			switch e.Result {
			case drillmap.Unprocessed:
				a.Spots.Unprocessed++

			case drillmap.Escaped:
				a.Spots.Exterior++
				a.Iterations.Total += int64(e.Last)
				a.Iterations.Exterior += int64(e.Last)

			case drillmap.MaxDepthReached:
				a.Spots.Interior++
				a.Iterations.Total += int64(e.Last)
				a.Iterations.Interior += int64(e.Last)

			case drillmap.InBulb:
				a.Spots.Interior++
				a.OptSpots.Total++
				a.OptSpots.Bulb++
				a.Iterations.Total += limit
				a.Iterations.Interior += limit
				a.Saved.Total += limit
				a.Saved.Bulb += limit

			case drillmap.InCardioid:
				a.Spots.Interior++
				a.OptSpots.Total++
				a.OptSpots.Cardioid++
				a.Iterations.Total += limit
				a.Iterations.Interior += limit
				a.Saved.Total += limit
				a.Saved.Cardioid += limit

			case drillmap.Periodic:
				a.Spots.Interior++
				a.OptSpots.Total++
				a.OptSpots.Periods++
				a.Iterations.Total += limit
				a.Iterations.Interior += limit
				a.Saved.Total += limit - int64(e.Last)
				a.Saved.Periods += limit - int64(e.Last)

			case drillmap.Attracted:
				a.Spots.Interior++
				a.OptSpots.Total++
				a.OptSpots.Attractors++
				a.Iterations.Total += limit
				a.Iterations.Interior += limit
				a.Saved.Total += limit - int64(e.Last)
				a.Saved.Attractors += limit - int64(e.Last)

			case drillmap.Glitch:
				a.Spots.Glitches++
			}
		}
	}
	return a
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

// Print writes a human-readable report.
func (a Analysis) Print(w io.Writer) {
	line := func(label string, n, whole int64) {
		fmt.Fprintf(w, "%16s %12d (%5.1f%%)\n", label+":", n, percent(n, whole))
	}
	fmt.Fprintf(w, "Map size: %d x %d\n\n", a.Width, a.Height)
	line("interior", a.Spots.Interior, a.Spots.Total)
	line("exterior", a.Spots.Exterior, a.Spots.Total)
	line("glitches", a.Spots.Glitches, a.Spots.Total)
	line("unprocessed", a.Spots.Unprocessed, a.Spots.Total)
	fmt.Fprintln(w)
	line("bulb", a.OptSpots.Bulb, a.Spots.Total)
	line("cardioid", a.OptSpots.Cardioid, a.Spots.Total)
	line("periodic", a.OptSpots.Periods, a.Spots.Total)
	line("attracted", a.OptSpots.Attractors, a.Spots.Total)
	line("approximated", a.OptSpots.Approximations, a.Spots.Total)
	fmt.Fprintln(w)
	line("iterations", a.Iterations.Total, a.Iterations.Total)
	line("saved", a.Saved.Total, a.Iterations.Total)
}
