package array

import (
	"math"
	"testing"
)

func TestBeamProfile(t *testing.T) {
	for _, fwhm := range []float64{1e-4, 0.01, 1, 42} {
		if got := BeamProfile(0, fwhm); got != 1.0 {
			t.Errorf("BeamProfile(0, %g) = %v, want 1", fwhm, got)
		}
		if got := BeamProfile(fwhm, fwhm); got != 0.5 {
			t.Errorf("BeamProfile(fwhm, fwhm) = %v, want 0.5", got)
		}
		if got := BeamProfile(-fwhm, fwhm); got != 0.5 {
			t.Errorf("BeamProfile(-fwhm, fwhm) = %v, want 0.5", got)
		}
	}

	// 8th order profile: at half the fwhm the response is 2^-(1/256)
	if got, want := BeamProfile(0.5, 1), math.Exp(math.Log(0.5)/256); math.Abs(got-want) > 1e-15 {
		t.Errorf("BeamProfile(0.5, 1) = %v, want %v", got, want)
	}
}

func TestAngularFWHMFarField(t *testing.T) {
	a, err := FromConfig(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	fwhm := a.AngularFWHM(math.Inf(1))
	dets := a.Dets()
	for i, d := range dets {
		lambda := SpeedOfLight / (d.BandCenter * 1e9)
		w0 := a.PrimarySize / math.Sqrt(2*math.Ln2)
		want := math.Sqrt(2*math.Ln2) * lambda / (math.Pi * w0)
		if math.Abs(fwhm[i]-want) > 1e-15 {
			t.Errorf("det %d: far-field fwhm %g, want %g", i, fwhm[i], want)
		}
	}

	// higher frequency gives a narrower beam
	if fwhm[len(fwhm)-1] >= fwhm[0] {
		t.Errorf("f150 beam (%g) should be narrower than f090 (%g)", fwhm[len(fwhm)-1], fwhm[0])
	}
}

func TestAngularFWHMConvergesToFarField(t *testing.T) {
	a, err := FromConfig(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	far := a.AngularFWHM(math.Inf(1))[0]
	near := a.AngularFWHM(1e9)[0]
	if math.Abs(near-far)/far > 1e-6 {
		t.Errorf("fwhm at 1e9 m (%g) should match far field (%g)", near, far)
	}
}

func TestPhysicalFWHM(t *testing.T) {
	a, err := FromConfig(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	z := 1000.0
	ang := a.AngularFWHM(z)
	phys := a.PhysicalFWHM(z)
	for i := range ang {
		if math.Abs(phys[i]-z*ang[i]) > 1e-12 {
			t.Errorf("det %d: physical %g != z*angular %g", i, phys[i], z*ang[i])
		}
		// never smaller than the aperture-limited waist FWHM
		if phys[i] < a.PrimarySize-1e-9 {
			t.Errorf("det %d: physical fwhm %g below primary size", i, phys[i])
		}
	}

	beam := a.PhysicalBeam(phys[0], z)
	if math.Abs(beam[0]-0.5) > 1e-12 {
		t.Errorf("physical beam at its fwhm = %g, want 0.5", beam[0])
	}
	if got := a.AngularBeam(0, math.Inf(1)); got[0] != 1 {
		t.Errorf("angular beam on axis = %g, want 1", got[0])
	}
}
