package array

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

// Detector is one row of the detector table.
type Detector struct {
	Band       string  `yaml:"band" json:"band"`
	BandCenter float64 `yaml:"band_center" json:"band_center"` // GHz
	BandWidth  float64 `yaml:"band_width" json:"band_width"`   // GHz
	OffsetX    float64 `yaml:"offset_x" json:"offset_x"`       // radians
	OffsetY    float64 `yaml:"offset_y" json:"offset_y"`       // radians
	BaselineX  float64 `yaml:"baseline_x" json:"baseline_x"`   // meters
	BaselineY  float64 `yaml:"baseline_y" json:"baseline_y"`   // meters
	BaselineZ  float64 `yaml:"baseline_z" json:"baseline_z"`   // meters
}

func (d Detector) BandMin() float64 { return d.BandCenter - 0.5*d.BandWidth }
func (d Detector) BandMax() float64 { return d.BandCenter + 0.5*d.BandWidth }

// Detectors is the detector table, ordered by band then generation order.
type Detectors []Detector

func (d Detectors) Clone() Detectors {
	c := make(Detectors, len(d))
	copy(c, d)
	return c
}

// Bands returns the distinct band labels in first-occurrence order.
func (d Detectors) Bands() []string {
	seen := make(map[string]bool)
	var out []string
	for _, det := range d {
		if !seen[det.Band] {
			seen[det.Band] = true
			out = append(out, det.Band)
		}
	}
	return out
}

func (d Detectors) Mask(band string) []bool {
	mask := make([]bool, len(d))
	for i, det := range d {
		mask[i] = det.Band == band
	}
	return mask
}

// BandConfig describes one band. Pointer fields distinguish an absent key
// from a zero value.
type BandConfig struct {
	N          *int     `yaml:"n" toml:"n"`
	BandCenter *float64 `yaml:"band_center" toml:"band_center"`
	BandWidth  *float64 `yaml:"band_width" toml:"band_width"`
}

var requiredBandKeys = []string{"n", "band_center", "band_width"}

func (c BandConfig) missing() []string {
	var out []string
	if c.N == nil {
		out = append(out, "n")
	}
	if c.BandCenter == nil {
		out = append(out, "band_center")
	}
	if c.BandWidth == nil {
		out = append(out, "band_width")
	}
	return out
}

// Band is a named band config.
type Band struct {
	Name   string
	Config BandConfig
}

// Bands is an ordered band mapping. Its order fixes the detector table layout.
type Bands []Band

// UnmarshalYAML decodes a YAML mapping while keeping key order.
func (b *Bands) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("array: bands must be a mapping, got line %d", node.Line)
	}
	out := make(Bands, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var cfg BandConfig
		if err := node.Content[i+1].Decode(&cfg); err != nil {
			return fmt.Errorf("array: band %q: %w", node.Content[i].Value, err)
		}
		out = append(out, Band{Name: node.Content[i].Value, Config: cfg})
	}
	*b = out
	return nil
}

// MarshalYAML writes the bands back as an ordered mapping.
func (b Bands) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, band := range b {
		var val yaml.Node
		if err := val.Encode(band.Config); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: band.Name}, &val)
	}
	return node, nil
}

// NewBand is a convenience constructor with every required key set.
func NewBand(name string, n int, center, width float64) Band {
	return Band{Name: name, Config: BandConfig{N: &n, BandCenter: &center, BandWidth: &width}}
}

// BuildDetectors expands a band mapping into a detector table. Angular
// offsets span fieldOfView (degrees, stored as radians) and physical baselines
// span baseline (meters).
func BuildDetectors(bands Bands, fieldOfView float64, geometry Geometry, baseline float64) (Detectors, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: no bands configured", ErrEmptyBand)
	}

	var dets Detectors
	for _, band := range bands {
		if missing := band.Config.missing(); len(missing) > 0 {
			return nil, &MissingBandConfigError{Band: band.Name, Missing: missing}
		}
		n := *band.Config.N
		if n <= 0 {
			return nil, fmt.Errorf("%w: band %q has n=%d", ErrEmptyBand, band.Name, n)
		}

		offsets, err := Offsets(geometry, fieldOfView, n)
		if err != nil {
			return nil, err
		}
		baselines, err := Offsets(geometry, baseline, n)
		if err != nil {
			return nil, err
		}

		for i := 0; i < n; i++ {
			dets = append(dets, Detector{
				Band:       band.Name,
				BandCenter: *band.Config.BandCenter,
				BandWidth:  *band.Config.BandWidth,
				OffsetX:    offsets[i].X * math.Pi / 180,
				OffsetY:    offsets[i].Y * math.Pi / 180,
				BaselineX:  baselines[i].X,
				BaselineY:  baselines[i].Y,
			})
		}
	}
	return dets, nil
}

// sortedBands returns the distinct band labels of d in lexical order.
func sortedBands(d Detectors) []string {
	out := d.Bands()
	sort.Strings(out)
	return out
}
