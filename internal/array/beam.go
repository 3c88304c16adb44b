package array

import "math"

// SpeedOfLight in m/s.
const SpeedOfLight = 2.998e8

// beamProfileOrder is the super-Gaussian exponent of BeamProfile.
const beamProfileOrder = 8

var fwhmPerWaist = math.Sqrt(2 * math.Ln2)

// BeamProfile is a flat-topped beam, exp(ln(0.5)*|r/fwhm|^8), evaluated as
// 2^-(|r/fwhm|^8) so that r = fwhm gives exactly 0.5.
func BeamProfile(r, fwhm float64) float64 {
	return math.Exp2(-math.Pow(math.Abs(r/fwhm), beamProfileOrder))
}

// GaussianBeamAngularFWHM returns the angular FWHM (radians) at distance z
// (meters) of a Gaussian beam with waist w0 (meters) at frequency f (GHz) in
// a medium of index n. z = +Inf gives the far-field value.
func GaussianBeamAngularFWHM(z, w0, f, n float64) float64 {
	lambda := SpeedOfLight / (f * 1e9)
	if math.IsInf(z, 1) {
		return fwhmPerWaist * lambda / (math.Pi * n * w0)
	}
	return GaussianBeamPhysicalFWHM(z, w0, f, n) / z
}

// GaussianBeamPhysicalFWHM returns the beam FWHM (meters) at distance z.
func GaussianBeamPhysicalFWHM(z, w0, f, n float64) float64 {
	lambda := SpeedOfLight / (f * 1e9)
	zR := math.Pi * w0 * w0 * n / lambda
	return fwhmPerWaist * w0 * math.Sqrt(1+(z/zR)*(z/zR))
}

// waist is the beam waist whose FWHM equals the primary aperture.
func (a *Array) waist() float64 {
	return a.PrimarySize / fwhmPerWaist
}

// AngularFWHM returns each detector's beam FWHM in radians at distance z.
func (a *Array) AngularFWHM(z float64) []float64 {
	w0 := a.waist()
	out := make([]float64, len(a.dets))
	for i, d := range a.dets {
		out[i] = GaussianBeamAngularFWHM(z, w0, d.BandCenter, 1)
	}
	return out
}

// PhysicalFWHM returns each detector's beam FWHM in meters at distance z,
// using the small-angle approximation z*AngularFWHM(z).
func (a *Array) PhysicalFWHM(z float64) []float64 {
	out := a.AngularFWHM(z)
	for i := range out {
		out[i] *= z
	}
	return out
}

// AngularBeam is each detector's response at angular radius r (radians).
func (a *Array) AngularBeam(r, z float64) []float64 {
	out := a.AngularFWHM(z)
	for i, fwhm := range out {
		out[i] = BeamProfile(r, fwhm)
	}
	return out
}

// PhysicalBeam is each detector's response at physical radius r (meters).
func (a *Array) PhysicalBeam(r, z float64) []float64 {
	out := a.PhysicalFWHM(z)
	for i, fwhm := range out {
		out[i] = BeamProfile(r, fwhm)
	}
	return out
}
