// Package rng wraps a deterministic rand.Rand so reference selection is
// reproducible under a fixed seed.
package rng

import "math/rand"

// RNG wraps a deterministic rand.Rand.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0,n).
func (r *RNG) Intn(n int) int {
	return r.r.Intn(n)
}

// Float64 returns a random float64 in [0,1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}
