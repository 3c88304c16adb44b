package array

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

//go:embed configs/arrays.yml
var arraysYAML []byte

// Registry holds the named array configs. Entries are kept as YAML nodes so
// that every lookup decodes a fresh Config the caller may modify.
type Registry struct {
	names   []string
	nodes   map[string]*yaml.Node
	summary string
}

// LoadRegistry builds the registry of arrays shipped with telesim.
func LoadRegistry() (*Registry, error) {
	return NewRegistry(arraysYAML)
}

// NewRegistry parses a YAML mapping of array name to array config.
func NewRegistry(data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("array: parse registry: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("array: registry must be a mapping of array names")
	}
	root := doc.Content[0]

	r := &Registry{nodes: make(map[string]*yaml.Node)}
	var table bytes.Buffer
	w := tabwriter.NewWriter(&table, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tdescription\tfield_of_view\tprimary_size")

	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		node := root.Content[i+1]

		var cfg Config
		if err := node.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("array: registry entry %q: %w", name, err)
		}
		if err := cfg.requireFields(); err != nil {
			return nil, fmt.Errorf("array: registry entry %q: %w", name, err)
		}

		fov := DefaultFieldOfView
		if cfg.FieldOfView != nil {
			fov = *cfg.FieldOfView
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\n", name, *cfg.Description, fov, *cfg.PrimarySize)

		r.names = append(r.names, name)
		r.nodes[name] = node
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	r.summary = table.String()
	return r, nil
}

// Names returns the array names in registry order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Summary is the description/field_of_view/primary_size table of all arrays.
func (r *Registry) Summary() string { return r.summary }

// Config returns the named config with overrides applied. Override keys must
// be array parameters.
func (r *Registry) Config(name string, overrides map[string]interface{}) (Config, error) {
	node, ok := r.nodes[name]
	if !ok {
		return Config{}, &InvalidArrayNameError{Name: name, Supported: r.summary}
	}

	var cfg Config
	if err := node.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("array: decode %q: %w", name, err)
	}
	if len(overrides) == 0 {
		return cfg, nil
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !isParam(k) {
			return Config{}, fmt.Errorf("%w: '%s' is not a valid argument for an array", ErrInvalidArrayParam, k)
		}
	}
	// a Go map has already lost the band order the detector rows depend on
	switch m := overrides["dets"].(type) {
	case map[string]interface{}:
		if len(m) > 1 {
			return Config{}, fmt.Errorf("%w: 'dets' with several bands must be an ordered YAML mapping", ErrInvalidArrayParam)
		}
	case map[interface{}]interface{}:
		if len(m) > 1 {
			return Config{}, fmt.Errorf("%w: 'dets' with several bands must be an ordered YAML mapping", ErrInvalidArrayParam)
		}
	}

	var patch yaml.Node
	if err := patch.Encode(overrides); err != nil {
		return Config{}, fmt.Errorf("array: encode overrides: %w", err)
	}
	if err := patch.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("array: apply overrides to %q: %w", name, err)
	}
	return cfg, nil
}

// Get builds the named array with overrides applied.
func (r *Registry) Get(name string, overrides map[string]interface{}) (*Array, error) {
	cfg, err := r.Config(name, overrides)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg)
}
