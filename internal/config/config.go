// Package config carries the typed configuration keys the drill engine
// consumes, their defaults, validation, and the precision derivation that
// must run before location values are parsed.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"os"

	"github.com/deepdrill/drill/internal/derrors"
	"github.com/deepdrill/drill/internal/xprec"
)

// Limits on the drill map dimensions.
const (
	MaxWidth  = 3840
	MaxHeight = 2160
)

// maxPrecisionBits bounds the derived arbitrary-precision width; a zoom
// needing more than this is treated as a conversion overflow.
const maxPrecisionBits = 1 << 20

// Options holds every configuration key the engine reads. JSON tags use
// the dotted key names the surrounding pipeline persists.
type Options struct {
	LocationReal  string `json:"location.real"`
	LocationImag  string `json:"location.imag"`
	LocationZoom  string `json:"location.zoom"`
	LocationDepth int    `json:"location.depth"`

	ImageWidth     int     `json:"image.width"`
	ImageHeight    int     `json:"image.height"`
	ImageBadPixels float64 `json:"image.badpixels"`

	PerturbationTolerance float64 `json:"perturbation.tolerance"`
	PerturbationRounds    int     `json:"perturbation.rounds"`

	ApproximationEnable       bool    `json:"approximation.enable"`
	ApproximationCoefficients int     `json:"approximation.coefficients"`
	ApproximationTolerance    float64 `json:"approximation.tolerance"`

	AreaCheckEnable         bool    `json:"areacheck.enable"`
	PeriodCheckEnable       bool    `json:"periodcheck.enable"`
	PeriodCheckTolerance    float64 `json:"periodcheck.tolerance"`
	AttractorCheckEnable    bool    `json:"attractorcheck.enable"`
	AttractorCheckTolerance float64 `json:"attractorcheck.tolerance"`

	// Seed drives the reference-selection RNG. Fixed for reproducibility.
	Seed int64 `json:"seed"`
}

// Default returns the engine defaults. The periodcheck/attractorcheck
// tolerances have no documented upstream default; 1e-16 is used and
// flagged in verbose output.
func Default() Options {
	return Options{
		LocationReal:  "0",
		LocationImag:  "0",
		LocationZoom:  "1",
		LocationDepth: 1000,

		ImageWidth:     1920,
		ImageHeight:    1080,
		ImageBadPixels: 0.001,

		PerturbationTolerance: 1e-6,
		PerturbationRounds:    50,

		ApproximationEnable:       true,
		ApproximationCoefficients: 5,
		ApproximationTolerance:    1e-12,

		AreaCheckEnable:         true,
		PeriodCheckEnable:       false,
		PeriodCheckTolerance:    1e-16,
		AttractorCheckEnable:    false,
		AttractorCheckTolerance: 1e-16,

		Seed: 1,
	}
}

// Load reads a JSON options document, starting from Default so absent
// keys keep their defaults. Unknown keys are rejected.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, fmt.Errorf("%w: %s", derrors.ErrFileNotFound, path)
		}
		return Options{}, fmt.Errorf("%w: %s: %v", derrors.ErrIO, path, err)
	}
	opts := Default()
	if err := unmarshalStrict(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: %s: %v", derrors.ErrKeyValue, path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

func unmarshalStrict(data []byte, opts *Options) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	known := knownKeys()
	for k := range raw {
		if !known[k] {
			return fmt.Errorf("unknown key %q", k)
		}
	}
	return json.Unmarshal(data, opts)
}

func knownKeys() map[string]bool {
	keys := []string{
		"location.real", "location.imag", "location.zoom", "location.depth",
		"image.width", "image.height", "image.badpixels",
		"perturbation.tolerance", "perturbation.rounds",
		"approximation.enable", "approximation.coefficients", "approximation.tolerance",
		"areacheck.enable",
		"periodcheck.enable", "periodcheck.tolerance",
		"attractorcheck.enable", "attractorcheck.tolerance",
		"seed",
	}
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// Save writes the options as a JSON document.
func (o Options) Save(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", derrors.ErrIO, path, err)
	}
	return nil
}

// Validate checks every key's range.
func (o Options) Validate() error {
	bad := func(key, detail string) error {
		return fmt.Errorf("%w: %s: %s", derrors.ErrKeyValue, key, detail)
	}
	if o.LocationDepth < 1 {
		return bad("location.depth", "must be >= 1")
	}
	if _, err := o.ZoomLog2(); err != nil {
		return err
	}
	if o.ImageWidth < 1 || o.ImageWidth > MaxWidth {
		return bad("image.width", fmt.Sprintf("must be in 1..%d", MaxWidth))
	}
	if o.ImageHeight < 1 || o.ImageHeight > MaxHeight {
		return bad("image.height", fmt.Sprintf("must be in 1..%d", MaxHeight))
	}
	if o.ImageBadPixels < 0 || o.ImageBadPixels > 1 {
		return bad("image.badpixels", "must be in [0,1]")
	}
	if o.PerturbationTolerance <= 0 {
		return bad("perturbation.tolerance", "must be > 0")
	}
	if o.PerturbationRounds < 1 {
		return bad("perturbation.rounds", "must be >= 1")
	}
	if o.ApproximationEnable {
		if o.ApproximationCoefficients < 2 || o.ApproximationCoefficients > 64 {
			return bad("approximation.coefficients", "must be in 2..64")
		}
		if o.ApproximationTolerance <= 0 {
			return bad("approximation.tolerance", "must be > 0")
		}
	}
	if o.PeriodCheckEnable && o.PeriodCheckTolerance <= 0 {
		return bad("periodcheck.tolerance", "must be > 0")
	}
	if o.AttractorCheckEnable && o.AttractorCheckTolerance <= 0 {
		return bad("attractorcheck.tolerance", "must be > 0")
	}
	return nil
}

// ZoomLog2 parses location.zoom and returns log2(zoom). The zoom string
// is parsed as an arbitrary-precision decimal so magnifications around
// 2^10000 survive.
func (o Options) ZoomLog2() (float64, error) {
	z, _, err := big.ParseFloat(o.LocationZoom, 10, 128, big.ToNearestEven)
	if err != nil {
		return 0, fmt.Errorf("%w: location.zoom: %v", derrors.ErrKeyValue, err)
	}
	if z.Sign() <= 0 {
		return 0, fmt.Errorf("%w: location.zoom: must be > 0", derrors.ErrKeyValue)
	}
	mant := new(big.Float)
	exp := z.MantExp(mant)
	m, _ := mant.Float64()
	return float64(exp) + math.Log2(m), nil
}

// PrecisionBits derives the arbitrary-precision width for this zoom:
// max(128, ceil(log2(zoom)) + 64).
func (o Options) PrecisionBits() (uint, error) {
	zl, err := o.ZoomLog2()
	if err != nil {
		return 0, err
	}
	bits := xprec.DerivePrecision(zl)
	if bits > maxPrecisionBits {
		return 0, fmt.Errorf("%w: location.zoom: needs %d bits of precision", derrors.ErrNumericOverflow, bits)
	}
	return bits, nil
}

// ApplyPrecision sets the process-wide default precision from the zoom.
// Must run before Center so location.real/imag retain full precision.
func (o Options) ApplyPrecision() error {
	bits, err := o.PrecisionBits()
	if err != nil {
		return err
	}
	xprec.SetDefaultPrec(bits)
	return nil
}

// PixelDelta returns the plane distance between adjacent pixels at the
// current default precision. The vertical extent of the image is
// 1/(2*zoom), so the delta is 1/(2*zoom*height).
func (o Options) PixelDelta() (xprec.PrecisionReal, error) {
	z, err := xprec.ParsePrecisionReal(o.LocationZoom)
	if err != nil {
		return xprec.PrecisionReal{}, fmt.Errorf("%w: location.zoom: %v", derrors.ErrKeyValue, err)
	}
	h := xprec.NewPrecisionReal(float64(o.ImageHeight))
	return xprec.NewPrecisionReal(0.5).Div(z.Mul(h)), nil
}

// Center parses location.real/location.imag at the current default
// precision.
func (o Options) Center() (xprec.PrecisionComplex, error) {
	re, err := xprec.ParsePrecisionReal(o.LocationReal)
	if err != nil {
		return xprec.PrecisionComplex{}, fmt.Errorf("%w: location.real: %v", derrors.ErrKeyValue, err)
	}
	im, err := xprec.ParsePrecisionReal(o.LocationImag)
	if err != nil {
		return xprec.PrecisionComplex{}, fmt.Errorf("%w: location.imag: %v", derrors.ErrKeyValue, err)
	}
	return xprec.PrecisionComplex{Re: re, Im: im}, nil
}
