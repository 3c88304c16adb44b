// Package pointing generates boresight trajectories for the supported scan
// patterns.
package pointing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/telesim/internal/coords"
)

var (
	ErrUnknownScanPattern = errors.New("pointing: unknown scan pattern")
	ErrInvalidParam       = errors.New("pointing: invalid pointing parameter")
	ErrInvalidConfig      = errors.New("pointing: invalid pointing config")
)

const (
	DefaultStartTime       = 1.7e9 // unix seconds
	DefaultIntegrationTime = 60.0  // seconds
	DefaultSampleRate      = 20.0  // Hz
	DefaultScanRadius      = 1.0   // degrees
	DefaultScanPeriod      = 60.0  // seconds
)

// Config parameterizes a scan.
type Config struct {
	ScanPattern     string       `yaml:"scan_pattern"`
	StartTime       float64      `yaml:"start_time"`       // unix seconds
	IntegrationTime float64      `yaml:"integration_time"` // seconds
	SampleRate      float64      `yaml:"sample_rate"`      // Hz
	Frame           coords.Frame `yaml:"pointing_frame"`
	ScanCenter      [2]float64   `yaml:"scan_center"` // degrees (phi, theta)
	ScanRadius      float64      `yaml:"scan_radius"` // degrees
	ScanPeriod      float64      `yaml:"scan_period"` // seconds
}

// Params lists the keys a pointing override may set.
var Params = []string{
	"scan_pattern", "start_time", "integration_time", "sample_rate",
	"pointing_frame", "scan_center", "scan_radius", "scan_period",
}

func DefaultConfig() Config {
	return Config{
		ScanPattern:     "stare",
		StartTime:       DefaultStartTime,
		IntegrationTime: DefaultIntegrationTime,
		SampleRate:      DefaultSampleRate,
		Frame:           coords.FrameAzEl,
		ScanCenter:      [2]float64{180, 60},
		ScanRadius:      DefaultScanRadius,
		ScanPeriod:      DefaultScanPeriod,
	}
}

// Pointing is a sampled boresight trajectory in its own frame.
type Pointing struct {
	ScanPattern string
	Frame       coords.Frame
	Time        []float64 // unix seconds
	Phi         []float64 // radians
	Theta       []float64 // radians
	MaxVel      float64   // rad/s
	MaxAcc      float64   // rad/s^2
}

// offsetFunc returns the tangent-plane offset (degrees) of the pattern at
// elapsed time t.
type offsetFunc func(cfg Config, t float64) (dx, dy float64)

var patterns = map[string]offsetFunc{
	"stare":          stare,
	"daisy":          daisy,
	"back_and_forth": backAndForth,
}

// Patterns returns the supported scan pattern names.
func Patterns() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get builds the named scan pattern from the defaults with overrides applied.
func Get(scanPattern string, overrides map[string]interface{}) (*Pointing, error) {
	cfg := DefaultConfig()
	cfg.ScanPattern = scanPattern
	if len(overrides) > 0 {
		for k := range overrides {
			if !contains(Params, k) {
				return nil, fmt.Errorf("%w: '%s'", ErrInvalidParam, k)
			}
		}
		var patch yaml.Node
		if err := patch.Encode(overrides); err != nil {
			return nil, err
		}
		if err := patch.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("pointing: apply overrides: %w", err)
		}
	}
	return New(cfg)
}

// New samples the scan described by cfg.
func New(cfg Config) (*Pointing, error) {
	fn, ok := patterns[cfg.ScanPattern]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownScanPattern, cfg.ScanPattern, Patterns())
	}
	if cfg.SampleRate <= 0 || cfg.IntegrationTime <= 0 {
		return nil, fmt.Errorf("%w: sample_rate and integration_time must be positive", ErrInvalidConfig)
	}
	if cfg.ScanPeriod <= 0 {
		return nil, fmt.Errorf("%w: scan_period must be positive", ErrInvalidConfig)
	}
	if !cfg.Frame.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, coords.ErrInvalidFrame)
	}

	n := int(cfg.IntegrationTime * cfg.SampleRate)
	if n < 1 {
		return nil, fmt.Errorf("%w: scan has no samples", ErrInvalidConfig)
	}

	phi0 := cfg.ScanCenter[0] * math.Pi / 180
	theta0 := cfg.ScanCenter[1] * math.Pi / 180

	p := &Pointing{
		ScanPattern: cfg.ScanPattern,
		Frame:       cfg.Frame,
		Time:        make([]float64, n),
		Phi:         make([]float64, n),
		Theta:       make([]float64, n),
	}
	for i := 0; i < n; i++ {
		elapsed := float64(i) / cfg.SampleRate
		dx, dy := fn(cfg, elapsed)
		p.Time[i] = cfg.StartTime + elapsed
		p.Phi[i], p.Theta[i] = coords.DxDyToPhiTheta(dx*math.Pi/180, dy*math.Pi/180, phi0, theta0)
	}
	p.MaxVel, p.MaxAcc = Kinematics(p.Time, p.Phi, p.Theta)
	return p, nil
}

func (p *Pointing) NSamples() int { return len(p.Time) }

func stare(Config, float64) (float64, float64) { return 0, 0 }

// daisy traces petals through the center, rotating by an irrational
// fraction of a turn each period.
func daisy(cfg Config, t float64) (float64, float64) {
	w := 2 * math.Pi / cfg.ScanPeriod
	ratio := (math.Sqrt(5) - 1) / 2
	r := cfg.ScanRadius * math.Sin(w*t)
	return r * math.Cos(ratio*w*t), r * math.Sin(ratio*w*t)
}

// backAndForth sweeps sinusoidally along phi.
func backAndForth(cfg Config, t float64) (float64, float64) {
	w := 2 * math.Pi / cfg.ScanPeriod
	return cfg.ScanRadius * math.Sin(w*t), 0
}

// Kinematics returns the peak angular speed and acceleration of a sampled
// trajectory from finite differences on the local tangent plane.
func Kinematics(time, phi, theta []float64) (maxVel, maxAcc float64) {
	n := len(time)
	if n < 2 {
		return 0, 0
	}

	vx := make([]float64, n)
	vy := make([]float64, n)
	for i := 0; i < n; i++ {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}
		dt := time[hi] - time[lo]
		dphi := math.Remainder(phi[hi]-phi[lo], 2*math.Pi)
		vx[i] = dphi * math.Cos(theta[i]) / dt
		vy[i] = (theta[hi] - theta[lo]) / dt
	}

	speed := make([]float64, n)
	for i := range speed {
		speed[i] = math.Hypot(vx[i], vy[i])
	}
	ax := gradient(time, vx)
	ay := gradient(time, vy)
	acc := make([]float64, n)
	for i := range acc {
		acc[i] = math.Hypot(ax[i], ay[i])
	}
	return floats.Max(speed), floats.Max(acc)
}

func gradient(x, y []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}
		out[i] = (y[hi] - y[lo]) / (x[hi] - x[lo])
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
