package config

import "sort"

var Presets = map[string]map[string]*Config{
	"stare": {
		"source": {
			Instrument: "default", ScanPattern: "stare", Site: "default", Generator: "point_source",
			Overrides: map[string]interface{}{"integration_time": 60.0, "sample_rate": 20.0},
		},
		"opaque": {
			Instrument: "default", ScanPattern: "stare", Site: "default", Generator: "point_source",
			GeneratorParams: map[string]float64{"tau": 0.3},
			Overrides:       map[string]interface{}{"integration_time": 60.0, "sample_rate": 20.0},
		},
	},
	"daisy": {
		"act": {
			Instrument: "ACT", ScanPattern: "daisy", Site: "chajnantor", Generator: "point_source",
			Overrides: map[string]interface{}{"scan_radius": 0.5, "scan_period": 30.0, "integration_time": 120.0},
		},
		"atlast": {
			Instrument: "AtLAST", ScanPattern: "daisy", Site: "chajnantor", Generator: "point_source",
			Overrides: map[string]interface{}{"scan_radius": 1.0, "scan_period": 60.0, "integration_time": 300.0},
		},
	},
	"back_and_forth": {
		"mustang": {
			Instrument: "MUSTANG-2", ScanPattern: "back_and_forth", Site: "green_bank", Generator: "uniform",
			GeneratorParams: map[string]float64{"level": 1, "noise": 0.1},
			Overrides:       map[string]interface{}{"scan_radius": 0.1, "scan_period": 10.0, "scan_center": []float64{180, 45}},
		},
		"fast": {
			Instrument: "default", ScanPattern: "back_and_forth", Site: "default", Generator: "uniform",
			Overrides: map[string]interface{}{"scan_radius": 10.0, "scan_period": 2.0},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(pattern, preset string) *Config {
	patternPresets, ok := Presets[pattern]
	if !ok {
		return nil
	}
	cfg, ok := patternPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(pattern string) []string {
	patternPresets, ok := Presets[pattern]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(patternPresets))
	for name := range patternPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetGroups returns the scan patterns that have presets.
func PresetGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
