// Package coords holds time-indexed angular coordinate streams tied to a
// point on the Earth, and the transforms between horizontal (az/el),
// equatorial (ra/dec) and focal-plane offset coordinates.
//
// All angles are radians unless a name says otherwise; times are unix
// seconds (UTC).
package coords

import (
	"errors"
	"fmt"
	"math"
)

type Frame string

const (
	FrameAzEl  Frame = "az_el"
	FrameRaDec Frame = "ra_dec"
)

var (
	ErrInvalidFrame = errors.New("coords: invalid frame")
	ErrShape        = errors.New("coords: mismatched stream shape")
)

func (f Frame) Valid() bool { return f == FrameAzEl || f == FrameRaDec }

// EarthLocation is a geodetic position.
type EarthLocation struct {
	Latitude  float64 `yaml:"latitude" json:"latitude"`   // degrees
	Longitude float64 `yaml:"longitude" json:"longitude"` // degrees, east positive
	Altitude  float64 `yaml:"altitude" json:"altitude"`   // meters
}

func (l EarthLocation) latRad() float64 { return l.Latitude * math.Pi / 180 }

// Coordinates is a set of angle streams sharing one time axis. Phi and Theta
// are indexed [stream][sample]; a boresight has one stream, a detector array
// one per detector.
type Coordinates struct {
	Time     []float64
	Phi      [][]float64
	Theta    [][]float64
	Location EarthLocation
	Frame    Frame
}

// New validates the shapes and frame of a coordinate set.
func New(time []float64, phi, theta [][]float64, loc EarthLocation, frame Frame) (*Coordinates, error) {
	if !frame.Valid() {
		return nil, fmt.Errorf("%w %q: valid frames are %s, %s", ErrInvalidFrame, frame, FrameAzEl, FrameRaDec)
	}
	if len(phi) != len(theta) {
		return nil, fmt.Errorf("%w: %d phi streams, %d theta streams", ErrShape, len(phi), len(theta))
	}
	for i := range phi {
		if len(phi[i]) != len(time) || len(theta[i]) != len(time) {
			return nil, fmt.Errorf("%w: stream %d has %d/%d samples for %d times",
				ErrShape, i, len(phi[i]), len(theta[i]), len(time))
		}
	}
	return &Coordinates{Time: time, Phi: phi, Theta: theta, Location: loc, Frame: frame}, nil
}

// NewSingle builds a one-stream coordinate set, such as a boresight.
func NewSingle(time, phi, theta []float64, loc EarthLocation, frame Frame) (*Coordinates, error) {
	return New(time, [][]float64{phi}, [][]float64{theta}, loc, frame)
}

func (c *Coordinates) NStreams() int { return len(c.Phi) }

func (c *Coordinates) NSamples() int { return len(c.Time) }

// AzEl returns azimuth and elevation streams, converting from ra/dec when needed.
func (c *Coordinates) AzEl() (az, el [][]float64) {
	if c.Frame == FrameAzEl {
		return cloneRows(c.Phi), cloneRows(c.Theta)
	}
	return c.convert(RaDecToAzEl)
}

// RaDec returns right ascension and declination streams.
func (c *Coordinates) RaDec() (ra, dec [][]float64) {
	if c.Frame == FrameRaDec {
		return cloneRows(c.Phi), cloneRows(c.Theta)
	}
	return c.convert(AzElToRaDec)
}

// Az and El return the first stream, the boresight for one-stream sets.
func (c *Coordinates) Az() []float64 {
	az, _ := c.AzEl()
	return firstRow(az)
}

func (c *Coordinates) El() []float64 {
	_, el := c.AzEl()
	return firstRow(el)
}

func (c *Coordinates) convert(fn func(p, t, lst, lat float64) (float64, float64)) ([][]float64, [][]float64) {
	lst := make([]float64, len(c.Time))
	for j, t := range c.Time {
		lst[j] = LocalSiderealTime(t, c.Location.Longitude)
	}
	lat := c.Location.latRad()

	outP := make([][]float64, len(c.Phi))
	outT := make([][]float64, len(c.Phi))
	for i := range c.Phi {
		outP[i] = make([]float64, len(c.Time))
		outT[i] = make([]float64, len(c.Time))
		for j := range c.Time {
			outP[i][j], outT[i][j] = fn(c.Phi[i][j], c.Theta[i][j], lst[j], lat)
		}
	}
	return outP, outT
}

func cloneRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = make([]float64, len(r))
		copy(out[i], r)
	}
	return out
}

func firstRow(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// Wrap maps an angle into [0, 2pi).
func Wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
