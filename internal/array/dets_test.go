package array

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuildDetectors(t *testing.T) {
	bands := Bands{
		NewBand("f090", 3, 90, 30),
		NewBand("f150", 2, 150, 30),
	}

	dets, err := BuildDetectors(bands, 1.0, GeometryHex, 0)
	require.NoError(t, err)
	require.Len(t, dets, 5)

	for i, d := range dets {
		if i < 3 {
			assert.Equal(t, "f090", d.Band)
			assert.Equal(t, 90.0, d.BandCenter)
		} else {
			assert.Equal(t, "f150", d.Band)
		}
		assert.Zero(t, d.BaselineX)
		assert.Zero(t, d.BaselineY)
		assert.Zero(t, d.BaselineZ)
	}

	assert.Equal(t, []string{"f090", "f150"}, dets.Bands())
}

func TestBuildDetectorsRadians(t *testing.T) {
	dets, err := BuildDetectors(Bands{NewBand("f150", 7, 150, 30)}, 2.0, GeometryHex, 6)
	require.NoError(t, err)

	offs, err := Offsets(GeometryHex, 2.0, 7)
	require.NoError(t, err)
	base, err := Offsets(GeometryHex, 6, 7)
	require.NoError(t, err)

	for i := range dets {
		assert.InDelta(t, offs[i].X*math.Pi/180, dets[i].OffsetX, 1e-15)
		assert.InDelta(t, offs[i].Y*math.Pi/180, dets[i].OffsetY, 1e-15)
		assert.Equal(t, base[i].X, dets[i].BaselineX)
		assert.Equal(t, base[i].Y, dets[i].BaselineY)
	}
}

func TestBuildDetectorsMissingKeys(t *testing.T) {
	n := 4
	bands := Bands{{Name: "f090", Config: BandConfig{N: &n}}}

	_, err := BuildDetectors(bands, 1.0, GeometryHex, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingBandConfig))

	var mbe *MissingBandConfigError
	require.True(t, errors.As(err, &mbe))
	assert.Equal(t, "f090", mbe.Band)
	assert.Equal(t, []string{"band_center", "band_width"}, mbe.Missing)
}

func TestBuildDetectorsEmpty(t *testing.T) {
	_, err := BuildDetectors(nil, 1.0, GeometryHex, 0)
	assert.ErrorIs(t, err, ErrEmptyBand)

	_, err = BuildDetectors(Bands{NewBand("f090", 0, 90, 30)}, 1.0, GeometryHex, 0)
	assert.ErrorIs(t, err, ErrEmptyBand)

	_, err = BuildDetectors(Bands{NewBand("f090", 3, 90, 30)}, 1.0, "triangle", 0)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestBandsYAMLOrder(t *testing.T) {
	src := `
zeta: {n: 1, band_center: 30, band_width: 5}
alpha: {n: 2, band_center: 90, band_width: 20}
mid: {n: 3, band_center: 150, band_width: 30}
`
	var bands Bands
	require.NoError(t, yaml.Unmarshal([]byte(src), &bands))

	names := make([]string, len(bands))
	for i, b := range bands {
		names[i] = b.Name
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, names); diff != "" {
		t.Errorf("band order mismatch (-want +got):\n%s", diff)
	}

	out, err := yaml.Marshal(bands)
	require.NoError(t, err)

	var again Bands
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, "zeta", again[0].Name)
	assert.Equal(t, 3, *again[2].Config.N)
}
