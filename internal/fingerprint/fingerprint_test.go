package fingerprint

import (
	"testing"

	"github.com/deepdrill/drill/internal/config"
)

func TestOfIsStable(t *testing.T) {
	a := Of(config.Default())
	b := Of(config.Default())
	if a != b {
		t.Fatalf("same options, different digests: %s %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("digest length %d", len(a))
	}
}

func TestOfSeparatesOptions(t *testing.T) {
	o := config.Default()
	a := Of(o)
	o.LocationZoom = "2"
	if Of(o) == a {
		t.Fatal("changed zoom, same digest")
	}
}
