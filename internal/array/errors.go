package array

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for array construction and queries.
var (
	// ErrInvalidGeometry indicates a packing geometry outside flower, hex, square.
	ErrInvalidGeometry = errors.New("array: invalid geometry")

	// ErrInvalidCount indicates a non-positive detector count for offsets.
	ErrInvalidCount = errors.New("array: detector count must be positive")

	// ErrEmptyBand indicates a band config with no detectors, or no bands at all.
	ErrEmptyBand = errors.New("array: band has no detectors")

	// ErrMissingBandConfig indicates a band entry without n, band_center or band_width.
	ErrMissingBandConfig = errors.New("array: missing band config")

	// ErrMissingField indicates a required top-level array config field is absent.
	ErrMissingField = errors.New("array: missing config field")

	// ErrInvalidArrayName indicates a lookup of an array the registry does not know.
	ErrInvalidArrayName = errors.New("array: invalid array name")

	// ErrInvalidArrayParam indicates an override key that is not an array parameter.
	ErrInvalidArrayParam = errors.New("array: invalid array parameter")

	// ErrEmptyPassband indicates a detector whose band matches none of the queried frequencies.
	ErrEmptyPassband = errors.New("array: empty passband")
)

// MissingBandConfigError names the band and the keys it lacks.
type MissingBandConfigError struct {
	Band    string
	Missing []string
}

func (e *MissingBandConfigError) Error() string {
	return fmt.Sprintf("array: band %q is missing keys %s (each band must have keys %s)",
		e.Band, strings.Join(e.Missing, ", "), strings.Join(requiredBandKeys, ", "))
}

func (e *MissingBandConfigError) Unwrap() error { return ErrMissingBandConfig }

// MissingFieldError names a required array config field that was not set.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("array: missing required config field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// EmptyPassbandError reports the first detector whose passband normalization is zero.
type EmptyPassbandError struct {
	Detector int
	Band     string
	Min, Max float64
}

func (e *EmptyPassbandError) Error() string {
	return fmt.Sprintf("array: detector %d (band %q, %g-%g GHz) has no queried frequencies inside its passband",
		e.Detector, e.Band, e.Min, e.Max)
}

func (e *EmptyPassbandError) Unwrap() error { return ErrEmptyPassband }

// InvalidArrayNameError carries the rendered table of supported arrays.
type InvalidArrayNameError struct {
	Name      string
	Supported string
}

func (e *InvalidArrayNameError) Error() string {
	return fmt.Sprintf("array: the array %q is not supported. Supported arrays are:\n\n%s", e.Name, e.Supported)
}

func (e *InvalidArrayNameError) Unwrap() error { return ErrInvalidArrayName }
