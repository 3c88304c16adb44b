package array

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func ptr[T any](v T) *T { return &v }

func testConfig() Config {
	return Config{
		Description:   ptr("test array"),
		PrimarySize:   ptr(6.0),
		FieldOfView:   ptr(0.5),
		Geometry:      ptr(GeometryFlower),
		Baseline:      ptr(2.0),
		MaxAzVel:      ptr(1.5),
		MaxElVel:      ptr(math.Inf(1)),
		MaxAzAcc:      ptr(0.25),
		MaxElAcc:      ptr(math.Inf(1)),
		AzBounds:      ptr([2]float64{0, 360}),
		ElBounds:      ptr([2]float64{20, 90}),
		Documentation: ptr("https://example.org/array"),
		Dets:          BandDets(NewBand("f090", 10, 90, 30), NewBand("f150", 5, 150, 30)),
	}
}

func TestFromConfigRoundTrip(t *testing.T) {
	a, err := FromConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, "test array", a.Description)
	assert.Equal(t, 6.0, a.PrimarySize)
	assert.Equal(t, 0.5, a.FieldOfView)
	assert.Equal(t, GeometryFlower, a.Geometry)
	assert.Equal(t, 2.0, a.Baseline)
	assert.Equal(t, 1.5, a.MaxAzVel)
	assert.True(t, math.IsInf(a.MaxElVel, 1))
	assert.Equal(t, 0.25, a.MaxAzAcc)
	assert.Equal(t, [2]float64{20, 90}, a.ElBounds)
	assert.Equal(t, "https://example.org/array", a.Documentation)
	assert.Equal(t, 15, a.NDets())
	assert.ElementsMatch(t, []string{"f090", "f150"}, a.UBands())
}

func TestFromConfigDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.FieldOfView = nil
	cfg.Geometry = nil
	cfg.Baseline = nil

	a, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.FieldOfView)
	assert.Equal(t, GeometryHex, a.Geometry)
	assert.Equal(t, 0.0, a.Baseline)
	for _, b := range a.Baselines() {
		assert.Equal(t, [2]float64{0, 0}, b)
	}
}

func TestFromConfigMissingField(t *testing.T) {
	tests := []struct {
		field string
		clear func(*Config)
	}{
		{"description", func(c *Config) { c.Description = nil }},
		{"primary_size", func(c *Config) { c.PrimarySize = nil }},
		{"max_el_acc", func(c *Config) { c.MaxElAcc = nil }},
		{"az_bounds", func(c *Config) { c.AzBounds = nil }},
		{"documentation", func(c *Config) { c.Documentation = nil }},
		{"dets", func(c *Config) { c.Dets = DetsConfig{} }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := testConfig()
			tt.clear(&cfg)
			_, err := FromConfig(cfg)

			var mfe *MissingFieldError
			require.True(t, errors.As(err, &mfe), "got %v", err)
			assert.Equal(t, tt.field, mfe.Field)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestFromConfigPrebuiltTable(t *testing.T) {
	table := Detectors{
		{Band: "f090", BandCenter: 90, BandWidth: 20, OffsetX: 1e-3},
		{Band: "f090", BandCenter: 90, BandWidth: 20, OffsetY: -1e-3},
	}
	cfg := testConfig()
	cfg.Dets = TableDets(table)

	a, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, table, a.Dets())

	// mutating the returned copy must not reach the array
	d := a.Dets()
	d[0].Band = "changed"
	assert.Equal(t, "f090", a.Dets()[0].Band)
}

func TestFromConfigYAML(t *testing.T) {
	src := `
description: yaml array
primary_size: 12.5
max_az_vel: .inf
max_el_vel: 2
max_az_acc: 1
max_el_acc: 1
az_bounds: [0, 360]
el_bounds: [10, 80]
documentation: ""
dets:
  - {band: f220, band_center: 220, band_width: 40, offset_x: 0.001, offset_y: 0}
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(src), &cfg))
	assert.Equal(t, DetsTable, cfg.Dets.Kind)

	a, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 12.5, a.PrimarySize)
	assert.True(t, math.IsInf(a.MaxAzVel, 1))
	assert.Equal(t, 1, a.NDets())
	assert.Equal(t, 0.001, a.OffsetX()[0])
}

func TestBandMinMax(t *testing.T) {
	a, err := FromConfig(testConfig())
	require.NoError(t, err)

	lo, hi := a.BandMin(), a.BandMax()
	for i, d := range a.Dets() {
		assert.Equal(t, d.BandCenter-d.BandWidth/2, lo[i])
		assert.Equal(t, d.BandCenter+d.BandWidth/2, hi[i])
	}

	mask := a.BandMask("f150")
	count := 0
	for _, m := range mask {
		if m {
			count++
		}
	}
	assert.Equal(t, 5, count)
}

func TestPassbands(t *testing.T) {
	cfg := testConfig()
	cfg.Dets = TableDets(Detectors{{Band: "f090", BandCenter: 90, BandWidth: 20}})
	a, err := FromConfig(cfg)
	require.NoError(t, err)

	pb, err := a.Passbands([]float64{80, 90, 100})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1, 0}}, pb)

	pb, err = a.Passbands([]float64{85, 90, 95, 120})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3, 0}, pb[0], 1e-15)
}

func TestPassbandsEmpty(t *testing.T) {
	a, err := FromConfig(testConfig())
	require.NoError(t, err)

	_, err = a.Passbands([]float64{90})
	var epe *EmptyPassbandError
	require.True(t, errors.As(err, &epe))
	assert.Equal(t, "f150", epe.Band)
	assert.ErrorIs(t, err, ErrEmptyPassband)
}

func TestString(t *testing.T) {
	a, err := FromConfig(testConfig())
	require.NoError(t, err)
	s := a.String()
	assert.Contains(t, s, "description=test array")
	assert.NotContains(t, s, "dets")
}
