// Package metrics summarizes time-ordered detector signals.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/telesim/internal/tod"
)

// Metric accumulates over detector rows of one signal.
type Metric interface {
	Name() string
	Observe(samples []float64)
	Value() float64
	Reset()
}

type Mean struct {
	sum     float64
	samples int
}

func NewMean() *Mean { return &Mean{} }

func (m *Mean) Name() string { return "mean" }

func (m *Mean) Observe(samples []float64) {
	m.sum += floats.Sum(samples)
	m.samples += len(samples)
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() { m.sum, m.samples = 0, 0 }

type RMS struct {
	sumSq   float64
	samples int
}

func NewRMS() *RMS { return &RMS{} }

func (r *RMS) Name() string { return "rms" }

func (r *RMS) Observe(samples []float64) {
	r.sumSq += floats.Dot(samples, samples)
	r.samples += len(samples)
}

func (r *RMS) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

func (r *RMS) Reset() { r.sumSq, r.samples = 0, 0 }

// Peak is the largest absolute sample.
type Peak struct {
	peak float64
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(samples []float64) {
	if len(samples) == 0 {
		return
	}
	p.peak = math.Max(p.peak, math.Max(floats.Max(samples), -floats.Min(samples)))
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }

// Saturation is the fraction of samples whose magnitude exceeds a threshold.
type Saturation struct {
	threshold  float64
	violations int
	samples    int
}

func NewSaturation(threshold float64) *Saturation {
	return &Saturation{threshold: threshold}
}

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) Observe(samples []float64) {
	for _, v := range samples {
		if math.Abs(v) > s.threshold {
			s.violations++
		}
	}
	s.samples += len(samples)
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Saturation) Reset() { s.violations, s.samples = 0, 0 }

// Default returns the metrics reported for every run.
func Default() []Metric {
	return []Metric{NewMean(), NewRMS(), NewPeak()}
}

// Summarize evaluates each metric over every signal of t, keyed
// "<signal>.<metric>". Calibrated values are used.
func Summarize(t *tod.TOD, ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(t.Data)*len(ms))
	for _, signal := range t.Signals() {
		rows, _ := t.Calibrated(signal)
		for _, m := range ms {
			m.Reset()
			for _, row := range rows {
				m.Observe(row)
			}
			out[signal+"."+m.Name()] = m.Value()
		}
	}
	return out
}

// Keys returns summary keys in sorted order.
func Keys(summary map[string]float64) []string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
