// Package config holds the run record for a simulation, loadable from YAML
// or TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInstrument  = "default"
	DefaultScanPattern = "stare"
	DefaultSite        = "default"
	DefaultGenerator   = "point_source"
)

type Config struct {
	Instrument           string             `yaml:"instrument" toml:"instrument"`
	ScanPattern          string             `yaml:"scan_pattern" toml:"scan_pattern"`
	Site                 string             `yaml:"site" toml:"site"`
	Generator            string             `yaml:"generator" toml:"generator"`
	GeneratorParams      map[string]float64 `yaml:"generator_params,omitempty" toml:"generator_params,omitempty"`
	Overrides            Overrides          `yaml:"overrides,omitempty" toml:"overrides,omitempty"`
	Seed                 int64              `yaml:"seed" toml:"seed"`
	Strict               bool               `yaml:"strict" toml:"strict"`
	FailOnKinematicLimit bool               `yaml:"fail_on_kinematic_limit" toml:"fail_on_kinematic_limit"`
}

func DefaultConfig() *Config {
	return &Config{
		Instrument:  DefaultInstrument,
		ScanPattern: DefaultScanPattern,
		Site:        DefaultSite,
		Generator:   DefaultGenerator,
	}
}

// Load reads a run record, picking the decoder from the file extension.
// Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy of the maps so presets are never shared.
func (c *Config) Clone() *Config {
	out := *c
	if c.GeneratorParams != nil {
		out.GeneratorParams = make(map[string]float64, len(c.GeneratorParams))
		for k, v := range c.GeneratorParams {
			out.GeneratorParams[k] = v
		}
	}
	if c.Overrides != nil {
		out.Overrides = make(Overrides, len(c.Overrides))
		for k, v := range c.Overrides {
			out.Overrides[k] = v
		}
	}
	return &out
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
