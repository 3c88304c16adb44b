// Package experiment turns a run record into a constructed simulation and a
// summarized result.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/telesim/internal/config"
	"github.com/san-kum/telesim/internal/logging"
	"github.com/san-kum/telesim/internal/metrics"
	"github.com/san-kum/telesim/internal/sim"
	"github.com/san-kum/telesim/internal/storage"
	"github.com/san-kum/telesim/internal/tod"
)

type Result struct {
	TOD      *tod.TOD
	Metrics  map[string]float64
	Warnings []string
}

type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	logger     logging.Logger
	simulation *sim.Simulation
}

func New(cfg *config.Config, logger logging.Logger) *Experiment {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Experiment{cfg: cfg, registry: NewRegistry(), logger: logger}
}

// Setup builds the generator and constructs the simulation.
func (e *Experiment) Setup(ctx context.Context) error {
	params := make(map[string]float64, len(e.cfg.GeneratorParams)+1)
	for k, v := range e.cfg.GeneratorParams {
		params[k] = v
	}
	if _, ok := params["seed"]; !ok {
		params["seed"] = float64(e.cfg.Seed)
	}
	gen, err := e.registry.GetGenerator(e.cfg.Generator, params)
	if err != nil {
		return err
	}

	s, err := sim.New(ctx, sim.Options{
		InstrumentName:       e.cfg.Instrument,
		ScanPattern:          e.cfg.ScanPattern,
		SiteName:             e.cfg.Site,
		Overrides:            e.cfg.Overrides,
		Strict:               e.cfg.Strict,
		FailOnKinematicLimit: e.cfg.FailOnKinematicLimit,
		Generator:            gen,
		Logger:               e.logger,
	})
	if err != nil {
		return err
	}
	e.simulation = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulation == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	out, err := e.simulation.Run(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		TOD:     out,
		Metrics: metrics.Summarize(out, e.registry.DefaultMetrics(e.cfg.Generator)),
	}
	for _, w := range e.simulation.Warnings() {
		res.Warnings = append(res.Warnings, w.Error())
	}
	return res, nil
}

// Metadata describes the run for storage.
func (e *Experiment) Metadata(res *Result) storage.RunMetadata {
	return storage.RunMetadata{
		Instrument:  e.cfg.Instrument,
		ScanPattern: e.cfg.ScanPattern,
		Site:        e.cfg.Site,
		Generator:   e.cfg.Generator,
		Seed:        e.cfg.Seed,
		Metrics:     res.Metrics,
		Warnings:    res.Warnings,
	}
}

// GetSimulation returns the constructed simulation.
func (e *Experiment) GetSimulation() *sim.Simulation {
	return e.simulation
}
