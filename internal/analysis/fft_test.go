package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestPowerSpectrumFindsTone(t *testing.T) {
	const (
		rate = 20.0
		f0   = 2.0
		n    = 200
	)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 3 + math.Sin(2*math.Pi*f0*float64(i)/rate)
	}

	freqs, power, err := PowerSpectrum(samples, rate)
	if err != nil {
		t.Fatal(err)
	}
	if len(freqs) != n/2+1 || len(power) != n/2+1 {
		t.Fatalf("got %d bins, want %d", len(freqs), n/2+1)
	}
	if math.Abs(freqs[len(freqs)-1]-rate/2) > 1e-9 {
		t.Errorf("last bin %g, want nyquist %g", freqs[len(freqs)-1], rate/2)
	}
	if power[0] > 1e-12 {
		t.Errorf("mean not removed: dc power %g", power[0])
	}
	if got := DominantFrequency(freqs, power); math.Abs(got-f0) > 1e-9 {
		t.Errorf("dominant frequency %g, want %g", got, f0)
	}
}

func TestPowerSpectrumTooShort(t *testing.T) {
	if _, _, err := PowerSpectrum([]float64{1}, 10); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	if got := DominantFrequency([]float64{0}, []float64{5}); got != 0 {
		t.Errorf("dc-only spectrum gave %g", got)
	}
}

func TestPlotBinsReachNyquist(t *testing.T) {
	const (
		rate = 20.0
		f0   = 8.0
		n    = 200
	)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * f0 * float64(i) / rate)
	}
	freqs, power, err := PowerSpectrum(samples, rate)
	if err != nil {
		t.Fatal(err)
	}

	bins := PlotBins(power)
	if len(bins) != len(power)-1 {
		t.Fatalf("got %d plot bins, want %d", len(bins), len(power)-1)
	}
	best := 0
	for i := range bins {
		if bins[i] > bins[best] {
			best = i
		}
	}
	if got := freqs[best+1]; math.Abs(got-f0) > 1e-9 {
		t.Errorf("plotted peak at %g Hz, want %g", got, f0)
	}

	if PlotBins([]float64{1}) != nil {
		t.Error("dc-only spectrum should have nothing to plot")
	}
}
