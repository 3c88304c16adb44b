// Package analysis provides spectral tools for time-ordered detector data.
//
//   - [PowerSpectrum]: one-sided periodogram of one detector's samples
//   - [DominantFrequency]: strongest non-DC line of a spectrum
//
// A daisy or back-and-forth scan crossing a point source shows up as a line
// at the scan frequency and its harmonics:
//
//	freqs, power, err := analysis.PowerSpectrum(row, sampleRate)
//	f := analysis.DominantFrequency(freqs, power)
package analysis
