// Package generators holds the data generators a simulation can run.
package generators

import (
	"context"
	"math"

	"github.com/san-kum/telesim/internal/array"
	"github.com/san-kum/telesim/internal/coords"
	"github.com/san-kum/telesim/internal/sim"
)

// PointSource is a compact source seen through each detector's far-field
// beam. With a positive zenith opacity the signal is attenuated by
// exp(-tau / sin(el)) along the boresight.
type PointSource struct {
	Frame coords.Frame
	Phi   float64 // radians
	Theta float64 // radians
	Flux  float64
	Tau   float64

	transmission []float64
}

// NewPointSource reads phi/theta in degrees plus flux and tau. A nonzero
// "ra_dec" selects equatorial source coordinates.
func NewPointSource(params map[string]float64) *PointSource {
	p := &PointSource{
		Frame: coords.FrameAzEl,
		Phi:   math.Pi,
		Theta: math.Pi / 3,
		Flux:  1,
	}
	if v, ok := params["phi"]; ok {
		p.Phi = v * math.Pi / 180
	}
	if v, ok := params["theta"]; ok {
		p.Theta = v * math.Pi / 180
	}
	if v, ok := params["flux"]; ok {
		p.Flux = v
	}
	if v, ok := params["tau"]; ok {
		p.Tau = v
	}
	if params["ra_dec"] != 0 {
		p.Frame = coords.FrameRaDec
	}
	return p
}

func (p *PointSource) Name() string { return "point_source" }

func (p *PointSource) Generate(ctx context.Context, s *sim.Simulation) (map[string][][]float64, error) {
	dc := s.DetCoords()
	var phi, theta [][]float64
	if p.Frame == coords.FrameRaDec {
		phi, theta = dc.RaDec()
	} else {
		phi, theta = dc.AzEl()
	}
	fwhm := s.Instrument().Array.AngularFWHM(math.Inf(1))

	p.transmission = nil
	if p.Tau > 0 {
		el := s.Boresight().El()
		p.transmission = make([]float64, len(el))
		for j, e := range el {
			p.transmission[j] = math.Exp(-p.Tau / math.Max(math.Sin(e), 1e-3))
		}
	}

	signal := make([][]float64, len(phi))
	for i := range phi {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]float64, len(phi[i]))
		for j := range row {
			r := coords.AngularSeparation(p.Phi, p.Theta, phi[i][j], theta[i][j])
			row[j] = p.Flux * array.BeamProfile(r, fwhm[i])
			if p.transmission != nil {
				row[j] *= p.transmission[j]
			}
		}
		signal[i] = row
	}
	return map[string][][]float64{"point_source": signal}, nil
}

// AtmosphericTransmission returns the series from the last Generate call,
// or nil when no opacity is modeled.
func (p *PointSource) AtmosphericTransmission() []float64 {
	return p.transmission
}
