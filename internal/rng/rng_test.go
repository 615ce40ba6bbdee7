package rng

import "testing"

func TestDeterministic(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 64; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("same seed diverged")
		}
	}
	if a.Float64() != b.Float64() {
		t.Fatal("same seed diverged on Float64")
	}
}
