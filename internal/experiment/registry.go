package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/telesim/internal/generators"
	"github.com/san-kum/telesim/internal/metrics"
	"github.com/san-kum/telesim/internal/sim"
)

type Registry struct {
	generators map[string]func(map[string]float64) sim.Generator
}

func NewRegistry() *Registry {
	r := &Registry{
		generators: make(map[string]func(map[string]float64) sim.Generator),
	}

	r.generators["point_source"] = func(params map[string]float64) sim.Generator {
		return generators.NewPointSource(params)
	}
	r.generators["uniform"] = func(params map[string]float64) sim.Generator {
		return generators.NewUniform(params)
	}

	return r
}

func (r *Registry) GetGenerator(name string, params map[string]float64) (sim.Generator, error) {
	fn, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator: %s (available: %v)", name, r.ListGenerators())
	}
	return fn(params), nil
}

func (r *Registry) ListGenerators() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the summary metrics for a generator's output.
func (r *Registry) DefaultMetrics(generator string) []metrics.Metric {
	ms := metrics.Default()
	if generator == "point_source" {
		// fraction of samples within half power of a unit source
		ms = append(ms, metrics.NewSaturation(0.5))
	}
	return ms
}
