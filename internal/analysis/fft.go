package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

var ErrTooShort = errors.New("analysis: need at least two samples")

// PowerSpectrum returns the one-sided periodogram of a uniformly sampled
// series with its mean removed. freqs are in Hz for the given sample rate.
func PowerSpectrum(samples []float64, sampleRate float64) (freqs, power []float64, err error) {
	n := len(samples)
	if n < 2 {
		return nil, nil, ErrTooShort
	}

	mean := stat.Mean(samples, nil)
	seq := make([]float64, n)
	for i, v := range samples {
		seq[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	freqs = make([]float64, len(coeffs))
	power = make([]float64, len(coeffs))
	for i, c := range coeffs {
		freqs[i] = fft.Freq(i) * sampleRate
		a := cmplx.Abs(c)
		power[i] = a * a / float64(n)
	}
	return freqs, power, nil
}

// DominantFrequency is the frequency of the strongest non-DC bin.
func DominantFrequency(freqs, power []float64) float64 {
	best := 0
	for i := 1; i < len(power); i++ {
		if best == 0 || power[i] > power[best] {
			best = i
		}
	}
	if best == 0 {
		return 0
	}
	return freqs[best]
}

// PlotBins drops the DC bin, leaving every bin from the lowest frequency up
// to Nyquist.
func PlotBins(power []float64) []float64 {
	if len(power) < 2 {
		return nil
	}
	return power[1:]
}
