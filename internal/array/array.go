package array

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFieldOfView = 1.0 // degrees
	DefaultGeometry    = GeometryHex
	DefaultBaseline    = 0.0 // meters
)

// DetsKind tags which variant a DetsConfig holds.
type DetsKind int

const (
	DetsUnset DetsKind = iota
	DetsBands
	DetsTable
)

// DetsConfig is either a band mapping to expand or a prebuilt detector table.
// The variant is fixed when the config is decoded.
type DetsConfig struct {
	Kind  DetsKind
	Bands Bands
	Table Detectors
}

func BandDets(bands ...Band) DetsConfig {
	return DetsConfig{Kind: DetsBands, Bands: bands}
}

func TableDets(table Detectors) DetsConfig {
	return DetsConfig{Kind: DetsTable, Table: table.Clone()}
}

// UnmarshalYAML picks the band variant for a mapping and the table variant
// for a sequence of detector rows.
func (d *DetsConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var bands Bands
		if err := node.Decode(&bands); err != nil {
			return err
		}
		*d = DetsConfig{Kind: DetsBands, Bands: bands}
	case yaml.SequenceNode:
		var table Detectors
		if err := node.Decode(&table); err != nil {
			return err
		}
		*d = DetsConfig{Kind: DetsTable, Table: table}
	default:
		return fmt.Errorf("array: dets must be a band mapping or a detector list (line %d)", node.Line)
	}
	return nil
}

func (d DetsConfig) MarshalYAML() (interface{}, error) {
	switch d.Kind {
	case DetsBands:
		return d.Bands, nil
	case DetsTable:
		return []Detector(d.Table), nil
	default:
		return nil, nil
	}
}

// Config is an array configuration record. Required fields are pointers so
// an absent key can be told apart from a zero value.
type Config struct {
	Description   *string     `yaml:"description"`
	PrimarySize   *float64    `yaml:"primary_size"`
	FieldOfView   *float64    `yaml:"field_of_view,omitempty"`
	Geometry      *Geometry   `yaml:"geometry,omitempty"`
	Baseline      *float64    `yaml:"baseline,omitempty"`
	MaxAzVel      *float64    `yaml:"max_az_vel"`
	MaxElVel      *float64    `yaml:"max_el_vel"`
	MaxAzAcc      *float64    `yaml:"max_az_acc"`
	MaxElAcc      *float64    `yaml:"max_el_acc"`
	AzBounds      *[2]float64 `yaml:"az_bounds"`
	ElBounds      *[2]float64 `yaml:"el_bounds"`
	Documentation *string     `yaml:"documentation"`
	Dets          DetsConfig  `yaml:"dets"`
}

// Params lists every key an array config accepts.
var Params = []string{
	"description", "primary_size", "field_of_view", "geometry", "baseline",
	"max_az_vel", "max_el_vel", "max_az_acc", "max_el_acc",
	"az_bounds", "el_bounds", "documentation", "dets",
}

func isParam(key string) bool {
	for _, p := range Params {
		if p == key {
			return true
		}
	}
	return false
}

// Array describes a detector array and its mount limits. It is not modified
// after FromConfig; the detector table is only handed out as a copy.
type Array struct {
	Description   string
	PrimarySize   float64 // meters
	FieldOfView   float64 // degrees
	Geometry      Geometry
	Baseline      float64 // meters
	MaxAzVel      float64 // deg/s
	MaxElVel      float64 // deg/s
	MaxAzAcc      float64 // deg/s^2
	MaxElAcc      float64 // deg/s^2
	AzBounds      [2]float64
	ElBounds      [2]float64
	Documentation string

	dets Detectors
}

// FromConfig builds an Array, expanding a band mapping into detectors when
// the config carries one.
func FromConfig(cfg Config) (*Array, error) {
	if err := cfg.requireFields(); err != nil {
		return nil, err
	}

	a := &Array{
		Description:   *cfg.Description,
		PrimarySize:   *cfg.PrimarySize,
		FieldOfView:   DefaultFieldOfView,
		Geometry:      DefaultGeometry,
		Baseline:      DefaultBaseline,
		MaxAzVel:      *cfg.MaxAzVel,
		MaxElVel:      *cfg.MaxElVel,
		MaxAzAcc:      *cfg.MaxAzAcc,
		MaxElAcc:      *cfg.MaxElAcc,
		AzBounds:      *cfg.AzBounds,
		ElBounds:      *cfg.ElBounds,
		Documentation: *cfg.Documentation,
	}
	if cfg.FieldOfView != nil {
		a.FieldOfView = *cfg.FieldOfView
	}
	if cfg.Geometry != nil {
		a.Geometry = *cfg.Geometry
	}
	if cfg.Baseline != nil {
		a.Baseline = *cfg.Baseline
	}

	if a.PrimarySize <= 0 {
		return nil, fmt.Errorf("array: primary_size must be positive, got %g", a.PrimarySize)
	}
	if a.FieldOfView <= 0 {
		return nil, fmt.Errorf("array: field_of_view must be positive, got %g", a.FieldOfView)
	}
	if a.Baseline < 0 {
		return nil, fmt.Errorf("array: baseline must be non-negative, got %g", a.Baseline)
	}
	for name, v := range map[string]float64{
		"max_az_vel": a.MaxAzVel, "max_el_vel": a.MaxElVel,
		"max_az_acc": a.MaxAzAcc, "max_el_acc": a.MaxElAcc,
	} {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("array: %s must be non-negative, got %g", name, v)
		}
	}

	switch cfg.Dets.Kind {
	case DetsBands:
		dets, err := BuildDetectors(cfg.Dets.Bands, a.FieldOfView, a.Geometry, a.Baseline)
		if err != nil {
			return nil, err
		}
		a.dets = dets
	case DetsTable:
		if len(cfg.Dets.Table) == 0 {
			return nil, fmt.Errorf("%w: detector table is empty", ErrEmptyBand)
		}
		a.dets = cfg.Dets.Table.Clone()
	}

	return a, nil
}

func (c Config) requireFields() error {
	checks := []struct {
		name string
		set  bool
	}{
		{"description", c.Description != nil},
		{"primary_size", c.PrimarySize != nil},
		{"max_az_vel", c.MaxAzVel != nil},
		{"max_el_vel", c.MaxElVel != nil},
		{"max_az_acc", c.MaxAzAcc != nil},
		{"max_el_acc", c.MaxElAcc != nil},
		{"az_bounds", c.AzBounds != nil},
		{"el_bounds", c.ElBounds != nil},
		{"documentation", c.Documentation != nil},
		{"dets", c.Dets.Kind != DetsUnset},
	}
	for _, chk := range checks {
		if !chk.set {
			return &MissingFieldError{Field: chk.name}
		}
	}
	return nil
}

func (a *Array) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Array(description=%s, primary_size=%g, field_of_view=%g, geometry=%s, baseline=%g, ",
		a.Description, a.PrimarySize, a.FieldOfView, a.Geometry, a.Baseline)
	fmt.Fprintf(&b, "max_az_vel=%g, max_el_vel=%g, max_az_acc=%g, max_el_acc=%g, ",
		a.MaxAzVel, a.MaxElVel, a.MaxAzAcc, a.MaxElAcc)
	fmt.Fprintf(&b, "az_bounds=%v, el_bounds=%v, documentation=%s)", a.AzBounds, a.ElBounds, a.Documentation)
	return b.String()
}

// Dets returns a copy of the detector table.
func (a *Array) Dets() Detectors { return a.dets.Clone() }

func (a *Array) NDets() int { return len(a.dets) }

// UBands returns the distinct band labels. Treat the result as a set; it is
// sorted only so output is stable.
func (a *Array) UBands() []string { return sortedBands(a.dets) }

func (a *Array) BandMask(band string) []bool { return a.dets.Mask(band) }

func (a *Array) OffsetX() []float64 {
	out := make([]float64, len(a.dets))
	for i, d := range a.dets {
		out[i] = d.OffsetX
	}
	return out
}

func (a *Array) OffsetY() []float64 {
	out := make([]float64, len(a.dets))
	for i, d := range a.dets {
		out[i] = d.OffsetY
	}
	return out
}

// Offsets returns n_dets (x, y) angular offsets in radians.
func (a *Array) Offsets() [][2]float64 {
	out := make([][2]float64, len(a.dets))
	for i, d := range a.dets {
		out[i] = [2]float64{d.OffsetX, d.OffsetY}
	}
	return out
}

// Baselines returns n_dets (x, y) physical baselines in meters.
func (a *Array) Baselines() [][2]float64 {
	out := make([][2]float64, len(a.dets))
	for i, d := range a.dets {
		out[i] = [2]float64{d.BaselineX, d.BaselineY}
	}
	return out
}

func (a *Array) BandCenter() []float64 {
	out := make([]float64, len(a.dets))
	for i, d := range a.dets {
		out[i] = d.BandCenter
	}
	return out
}

func (a *Array) BandMin() []float64 {
	out := make([]float64, len(a.dets))
	for i, d := range a.dets {
		out[i] = d.BandMin()
	}
	return out
}

func (a *Array) BandMax() []float64 {
	out := make([]float64, len(a.dets))
	for i, d := range a.dets {
		out[i] = d.BandMax()
	}
	return out
}

// Passbands returns the top-hat response of every detector at the queried
// frequencies (GHz). Each row sums to one. A detector whose band contains
// none of nu yields an EmptyPassbandError.
func (a *Array) Passbands(nu []float64) ([][]float64, error) {
	out := make([][]float64, len(a.dets))
	for i, d := range a.dets {
		lo, hi := d.BandMin(), d.BandMax()
		row := make([]float64, len(nu))
		count := 0
		for j, f := range nu {
			if f > lo && f < hi {
				row[j] = 1
				count++
			}
		}
		if count == 0 {
			return nil, &EmptyPassbandError{Detector: i, Band: d.Band, Min: lo, Max: hi}
		}
		for j := range row {
			row[j] /= float64(count)
		}
		out[i] = row
	}
	return out, nil
}
