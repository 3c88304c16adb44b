package generators

import (
	"context"
	"math/rand"

	"github.com/san-kum/telesim/internal/sim"
)

// Uniform fills every detector with a constant level plus optional white
// noise drawn from a seeded source.
type Uniform struct {
	Level float64
	Noise float64
	Seed  int64
}

func NewUniform(params map[string]float64) *Uniform {
	u := &Uniform{Level: 1}
	if v, ok := params["level"]; ok {
		u.Level = v
	}
	u.Noise = params["noise"]
	u.Seed = int64(params["seed"])
	return u
}

func (u *Uniform) Name() string { return "uniform" }

func (u *Uniform) Generate(ctx context.Context, s *sim.Simulation) (map[string][][]float64, error) {
	dc := s.DetCoords()
	rng := rand.New(rand.NewSource(u.Seed))

	signal := make([][]float64, dc.NStreams())
	for i := range signal {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]float64, dc.NSamples())
		for j := range row {
			row[j] = u.Level
			if u.Noise > 0 {
				row[j] += u.Noise * rng.NormFloat64()
			}
		}
		signal[i] = row
	}
	return map[string][][]float64{"uniform": signal}, nil
}
