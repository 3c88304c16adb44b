// Package tod holds simulated time-ordered detector data.
package tod

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/telesim/internal/array"
	"github.com/san-kum/telesim/internal/coords"
)

var ErrShape = errors.New("tod: data shape does not match detectors and samples")

// TOD is built once at the end of a simulation run and not mutated after.
type TOD struct {
	Data   map[string][][]float64 // signal -> [detector][sample]
	Dets   array.Detectors
	Coords *coords.Coordinates
	Abscal float64
}

// New checks that every signal has one row per detector and one column per
// coordinate sample.
func New(data map[string][][]float64, dets array.Detectors, c *coords.Coordinates, abscal float64) (*TOD, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil coordinates", ErrShape)
	}
	if c.NStreams() != len(dets) {
		return nil, fmt.Errorf("%w: %d coordinate streams for %d detectors", ErrShape, c.NStreams(), len(dets))
	}
	for name, rows := range data {
		if len(rows) != len(dets) {
			return nil, fmt.Errorf("%w: signal %q has %d rows, want %d", ErrShape, name, len(rows), len(dets))
		}
		for i, row := range rows {
			if len(row) != c.NSamples() {
				return nil, fmt.Errorf("%w: signal %q detector %d has %d samples, want %d", ErrShape, name, i, len(row), c.NSamples())
			}
		}
	}
	return &TOD{Data: data, Dets: dets, Coords: c, Abscal: abscal}, nil
}

func (t *TOD) NDets() int    { return len(t.Dets) }
func (t *TOD) NSamples() int { return t.Coords.NSamples() }

// Signals returns the data product names in sorted order.
func (t *TOD) Signals() []string {
	names := make([]string, 0, len(t.Data))
	for name := range t.Data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calibrated returns a copy of the named signal multiplied by Abscal.
func (t *TOD) Calibrated(signal string) ([][]float64, bool) {
	rows, ok := t.Data[signal]
	if !ok {
		return nil, false
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v * t.Abscal
		}
	}
	return out, true
}
