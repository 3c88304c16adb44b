// Package instrument pairs a detector array with the mount limits of the
// telescope carrying it.
package instrument

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/telesim/internal/array"
)

var (
	ErrUnknownInstrument = errors.New("instrument: unknown instrument")
	ErrInvalidParam      = errors.New("instrument: invalid instrument parameter")
)

//go:embed instruments.yml
var instrumentsYAML []byte

type Config struct {
	Description string  `yaml:"description"`
	ArrayName   string  `yaml:"array_name"`
	VelLimit    float64 `yaml:"vel_limit"` // deg/s
	AccLimit    float64 `yaml:"acc_limit"` // deg/s^2
}

// ownParams are the instrument-level keys; any array parameter is accepted
// as well and forwarded to the array registry.
var ownParams = []string{"description", "array_name", "vel_limit", "acc_limit"}

// Params lists every override key an instrument lookup accepts.
func Params() []string {
	out := append([]string{}, ownParams...)
	return append(out, array.Params...)
}

type Instrument struct {
	Name        string
	Description string
	Array       *array.Array
	VelLimit    float64 // deg/s
	AccLimit    float64 // deg/s^2
}

func New(name string, a *array.Array, velLimit, accLimit float64) (*Instrument, error) {
	if a == nil {
		return nil, fmt.Errorf("instrument %q: nil array", name)
	}
	if velLimit < 0 || accLimit < 0 {
		return nil, fmt.Errorf("instrument %q: limits must be non-negative", name)
	}
	return &Instrument{Name: name, Description: a.Description, Array: a, VelLimit: velLimit, AccLimit: accLimit}, nil
}

// Dets returns a copy of the array's detector table.
func (i *Instrument) Dets() array.Detectors { return i.Array.Dets() }

// Offsets returns n_dets (x, y) angular offsets in radians.
func (i *Instrument) Offsets() [][2]float64 { return i.Array.Offsets() }

func (i *Instrument) NDets() int { return i.Array.NDets() }

type Registry struct {
	arrays  *array.Registry
	configs map[string]Config
}

func LoadRegistry(arrays *array.Registry) (*Registry, error) {
	return NewRegistry(instrumentsYAML, arrays)
}

func NewRegistry(data []byte, arrays *array.Registry) (*Registry, error) {
	var configs map[string]Config
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("instrument: parse registry: %w", err)
	}
	for name, cfg := range configs {
		if cfg.ArrayName == "" {
			return nil, fmt.Errorf("instrument %q: array_name is required", name)
		}
	}
	return &Registry{arrays: arrays, configs: configs}, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get builds the named instrument. Overrides may set instrument keys or any
// array parameter.
func (r *Registry) Get(name string, overrides map[string]interface{}) (*Instrument, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownInstrument, name, strings.Join(r.Names(), ", "))
	}

	own := make(map[string]interface{})
	arrayOverrides := make(map[string]interface{})
	for k, v := range overrides {
		switch {
		case contains(ownParams, k):
			own[k] = v
		case contains(array.Params, k):
			arrayOverrides[k] = v
		default:
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidParam, k)
		}
	}
	if len(own) > 0 {
		var patch yaml.Node
		if err := patch.Encode(own); err != nil {
			return nil, err
		}
		if err := patch.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("instrument %q: apply overrides: %w", name, err)
		}
	}

	a, err := r.arrays.Get(cfg.ArrayName, arrayOverrides)
	if err != nil {
		return nil, fmt.Errorf("instrument %q: %w", name, err)
	}
	inst, err := New(name, a, cfg.VelLimit, cfg.AccLimit)
	if err != nil {
		return nil, err
	}
	if cfg.Description != "" {
		inst.Description = cfg.Description
	}
	return inst, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
