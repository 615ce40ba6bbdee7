// Package derrors declares the sentinel errors shared across the drill
// engine. Callers match with errors.Is; fatal paths wrap these with
// round/reference context via fmt.Errorf("%w: ...").
package derrors

import "errors"

var (
	// ErrKeyValue reports a configuration key with an unknown name or an
	// unparseable value.
	ErrKeyValue = errors.New("deepdrill: invalid configuration key")

	// ErrFileNotFound reports a missing required input file.
	ErrFileNotFound = errors.New("deepdrill: file not found")

	// ErrIO reports a read/write or compression failure at the boundary.
	ErrIO = errors.New("deepdrill: io error")

	// ErrInvalidChannel reports an unknown channel id in a map file.
	ErrInvalidChannel = errors.New("deepdrill: invalid channel id")

	// ErrFormat reports a corrupted or unsupported map file.
	ErrFormat = errors.New("deepdrill: format error")

	// ErrNumericOverflow reports an arbitrary-precision conversion failure.
	ErrNumericOverflow = errors.New("deepdrill: numeric overflow")

	// ErrUserInterrupt reports cooperative cancellation.
	ErrUserInterrupt = errors.New("deepdrill: user interrupt")

	// ErrExitRequest reports a clean early exit (help-style paths).
	ErrExitRequest = errors.New("deepdrill: exit request")
)
