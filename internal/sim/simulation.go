// Package sim composes an instrument, a pointing and a site into per-detector
// sky coordinates and runs a data generator over them.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/telesim/internal/array"
	"github.com/san-kum/telesim/internal/coords"
	"github.com/san-kum/telesim/internal/instrument"
	"github.com/san-kum/telesim/internal/logging"
	"github.com/san-kum/telesim/internal/pointing"
	"github.com/san-kum/telesim/internal/site"
	"github.com/san-kum/telesim/internal/tod"
)

const detChunk = 16

type Simulation struct {
	opts   Options
	logger logging.Logger
	state  State

	instrument *instrument.Instrument
	pointing   *pointing.Pointing
	site       *site.Site

	boresight *coords.Coordinates
	detCoords *coords.Coordinates
	warnings  []error
	dropped   []string
}

// New builds and constructs a simulation.
func New(ctx context.Context, opts Options) (*Simulation, error) {
	s := &Simulation{opts: opts, logger: opts.Logger}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	if err := s.Construct(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Construct resolves collaborators, builds the boresight, checks kinematic
// limits and derives detector coordinates. It is a no-op once constructed.
func (s *Simulation) Construct(ctx context.Context) error {
	if s.state == Constructed {
		return nil
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}

	routed, dropped, err := ParseOverrides(s.opts.Overrides, namespaces(), s.opts.Strict)
	if err != nil {
		return err
	}
	for _, k := range dropped {
		s.logger.Debug("dropping unrecognized simulation parameter", logging.String("key", k))
	}

	inst, err := s.resolveInstrument(routed["instrument"])
	if err != nil {
		return err
	}
	point, err := s.resolvePointing(routed["pointing"])
	if err != nil {
		return err
	}
	st, err := s.resolveSite(routed["site"])
	if err != nil {
		return err
	}

	boresight, err := coords.NewSingle(point.Time, point.Phi, point.Theta, st.EarthLocation(), point.Frame)
	if err != nil {
		return fmt.Errorf("sim: boresight: %w", err)
	}

	warnings := checkKinematics(point, inst)
	for _, w := range warnings {
		s.logger.Warn(w.Error(), logging.String("instrument", inst.Name), logging.String("scan_pattern", point.ScanPattern))
	}
	if s.opts.FailOnKinematicLimit && len(warnings) > 0 {
		return errors.Join(warnings...)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	detCoords, err := detectorCoords(boresight, inst.Offsets())
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.instrument, s.pointing, s.site = inst, point, st
	s.boresight, s.detCoords = boresight, detCoords
	s.warnings, s.dropped = warnings, dropped
	s.state = Constructed

	s.logger.Info("simulation constructed",
		logging.String("instrument", inst.Name),
		logging.String("site", st.Name),
		logging.String("scan_pattern", point.ScanPattern),
		logging.Int("n_dets", inst.NDets()),
		logging.Int("n_samples", boresight.NSamples()),
		logging.Bool("strict", s.opts.Strict),
	)
	return nil
}

// Run generates the per-detector data and packages it with the detector
// table, the detector coordinates and the absolute calibration.
func (s *Simulation) Run(ctx context.Context) (*tod.TOD, error) {
	if s.state != Constructed {
		return nil, ErrNotConstructed
	}
	gen := s.opts.Generator
	if gen == nil {
		return nil, ErrNotImplemented
	}

	data, err := gen.Generate(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("sim: %s: %w", gen.Name(), err)
	}

	// abscal blows up when the transmission is ~0 almost everywhere.
	abscal := 1.0
	if tp, ok := gen.(TransmissionProvider); ok {
		if tr := tp.AtmosphericTransmission(); len(tr) > 0 {
			abscal /= stat.Mean(tr, nil)
		}
	}

	out, err := tod.New(data, s.instrument.Dets(), s.detCoords, abscal)
	if err != nil {
		return nil, fmt.Errorf("sim: %s: %w", gen.Name(), err)
	}
	s.logger.Info("simulation run complete",
		logging.String("generator", gen.Name()),
		logging.Float64("abscal", abscal),
	)
	return out, nil
}

func (s *Simulation) State() State                       { return s.state }
func (s *Simulation) Instrument() *instrument.Instrument { return s.instrument }
func (s *Simulation) Pointing() *pointing.Pointing       { return s.pointing }
func (s *Simulation) Site() *site.Site                   { return s.site }
func (s *Simulation) Boresight() *coords.Coordinates     { return s.boresight }
func (s *Simulation) DetCoords() *coords.Coordinates     { return s.detCoords }
func (s *Simulation) Dets() array.Detectors              { return s.instrument.Dets() }

// Warnings returns the kinematic limit violations found during Construct.
func (s *Simulation) Warnings() []error {
	return append([]error(nil), s.warnings...)
}

// Dropped returns override keys that matched no namespace.
func (s *Simulation) Dropped() []string {
	return append([]string(nil), s.dropped...)
}

func namespaces() []Namespace {
	return []Namespace{
		{Name: "instrument", Keys: instrument.Params()},
		{Name: "pointing", Keys: pointing.Params},
		{Name: "site", Keys: site.Params},
	}
}

func (s *Simulation) resolveInstrument(overrides map[string]interface{}) (*instrument.Instrument, error) {
	if s.opts.Instrument != nil {
		s.ignoreOverrides("instrument", overrides)
		return s.opts.Instrument, nil
	}
	reg := s.opts.Instruments
	if reg == nil {
		arrays, err := array.LoadRegistry()
		if err != nil {
			return nil, err
		}
		if reg, err = instrument.LoadRegistry(arrays); err != nil {
			return nil, err
		}
	}
	name := s.opts.InstrumentName
	if name == "" {
		name = DefaultInstrument
	}
	return reg.Get(name, overrides)
}

func (s *Simulation) resolvePointing(overrides map[string]interface{}) (*pointing.Pointing, error) {
	if s.opts.Pointing != nil {
		s.ignoreOverrides("pointing", overrides)
		return s.opts.Pointing, nil
	}
	pattern := s.opts.ScanPattern
	if pattern == "" {
		pattern = DefaultScanPattern
	}
	return pointing.Get(pattern, overrides)
}

func (s *Simulation) resolveSite(overrides map[string]interface{}) (*site.Site, error) {
	if s.opts.Site != nil {
		s.ignoreOverrides("site", overrides)
		return s.opts.Site, nil
	}
	reg := s.opts.Sites
	if reg == nil {
		var err error
		if reg, err = site.LoadRegistry(); err != nil {
			return nil, err
		}
	}
	name := s.opts.SiteName
	if name == "" {
		name = DefaultSite
	}
	return reg.Get(name, overrides)
}

func (s *Simulation) ignoreOverrides(namespace string, overrides map[string]interface{}) {
	for k := range overrides {
		s.logger.Warn("override ignored for prebuilt "+namespace, logging.String("key", k))
	}
}

// checkKinematics compares pointing peaks (rad/s, rad/s^2) with the
// instrument limits (deg/s, deg/s^2).
func checkKinematics(p *pointing.Pointing, inst *instrument.Instrument) []error {
	var out []error
	velLimit := inst.VelLimit * math.Pi / 180
	accLimit := inst.AccLimit * math.Pi / 180
	if p.MaxVel > velLimit {
		out = append(out, &KinematicLimitError{Quantity: "velocity", Value: p.MaxVel, Limit: velLimit})
	}
	if p.MaxAcc > accLimit {
		out = append(out, &KinematicLimitError{Quantity: "acceleration", Value: p.MaxAcc, Limit: accLimit})
	}
	return out
}

// detectorCoords applies each detector offset to the boresight az/el.
func detectorCoords(boresight *coords.Coordinates, offsets [][2]float64) (*coords.Coordinates, error) {
	az, el := boresight.Az(), boresight.El()
	phi := make([][]float64, len(offsets))
	theta := make([][]float64, len(offsets))

	ParallelFor(len(offsets), detChunk, func(start, end int) {
		for i := start; i < end; i++ {
			phi[i], theta[i] = coords.OffsetSeries(offsets[i][0], offsets[i][1], az, el)
		}
	})

	c, err := coords.New(boresight.Time, phi, theta, boresight.Location, coords.FrameAzEl)
	if err != nil {
		return nil, fmt.Errorf("sim: detector coordinates: %w", err)
	}
	return c, nil
}
