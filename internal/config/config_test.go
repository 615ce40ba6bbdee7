package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/deepdrill/drill/internal/derrors"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*Options){
		func(o *Options) { o.LocationDepth = 0 },
		func(o *Options) { o.LocationZoom = "0" },
		func(o *Options) { o.LocationZoom = "not a number" },
		func(o *Options) { o.ImageWidth = 0 },
		func(o *Options) { o.ImageWidth = MaxWidth + 1 },
		func(o *Options) { o.ImageHeight = MaxHeight + 1 },
		func(o *Options) { o.ImageBadPixels = 1.5 },
		func(o *Options) { o.PerturbationTolerance = 0 },
		func(o *Options) { o.PerturbationRounds = 0 },
		func(o *Options) { o.ApproximationCoefficients = 1 },
		func(o *Options) { o.ApproximationCoefficients = 65 },
		func(o *Options) { o.ApproximationTolerance = -1 },
		func(o *Options) { o.PeriodCheckEnable = true; o.PeriodCheckTolerance = 0 },
	}
	for i, mutate := range cases {
		o := Default()
		mutate(&o)
		if err := o.Validate(); !errors.Is(err, derrors.ErrKeyValue) {
			t.Errorf("case %d: err = %v, want ErrKeyValue", i, err)
		}
	}
}

func TestZoomLog2(t *testing.T) {
	cases := []struct {
		zoom string
		want float64
	}{
		{"1", 0},
		{"2", 1},
		{"1024", 10},
		{"1e6", math.Log2(1e6)},
	}
	for _, c := range cases {
		o := Default()
		o.LocationZoom = c.zoom
		got, err := o.ZoomLog2()
		if err != nil {
			t.Fatalf("zoom %q: %v", c.zoom, err)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("zoom %q: log2 = %v, want %v", c.zoom, got, c.want)
		}
	}
}

func TestPrecisionBits(t *testing.T) {
	cases := []struct {
		zoom string
		want uint
	}{
		{"1", 128},     // floor applies
		{"1e6", 128},   // ceil(19.9)+64 = 84, still floored
		{"1e30", 164},  // ceil(99.66)+64
		{"1e100", 397}, // ceil(332.2)+64
	}
	for _, c := range cases {
		o := Default()
		o.LocationZoom = c.zoom
		got, err := o.PrecisionBits()
		if err != nil {
			t.Fatalf("zoom %q: %v", c.zoom, err)
		}
		if got != c.want {
			t.Errorf("zoom %q: bits = %d, want %d", c.zoom, got, c.want)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	o := Default()
	o.LocationReal = "-0.75"
	o.LocationZoom = "1e12"
	o.ImageWidth = 640
	o.ImageHeight = 360
	path := filepath.Join(t.TempDir(), "opts.json")
	if err := o.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != o {
		t.Fatalf("round trip: %+v != %+v", got, o)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.json")
	if err := os.WriteFile(path, []byte(`{"location.zomm": "1"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, derrors.ErrKeyValue) {
		t.Fatalf("err = %v, want ErrKeyValue", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, derrors.ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}

func TestPixelDelta(t *testing.T) {
	o := Default()
	o.LocationZoom = "2"
	o.ImageHeight = 64
	d, err := o.PixelDelta()
	if err != nil {
		t.Fatal(err)
	}
	// Vertical extent 1/(2*zoom) = 0.25 over 64 pixels.
	if got, want := d.Float64(), 0.25/64; got != want {
		t.Fatalf("delta = %v, want %v", got, want)
	}
}
