package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Overrides are simulation keyword arguments. Mapping values are kept as
// *yaml.Node so their key order survives until an override is applied; the
// order of a dets band mapping fixes the detector table layout.
type Overrides map[string]interface{}

func (o *Overrides) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config: overrides must be a mapping (line %d)", node.Line)
	}
	out := make(Overrides, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		v, err := nodeValue(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("config: override %q: %w", node.Content[i].Value, err)
		}
		out[node.Content[i].Value] = v
	}
	*o = out
	return nil
}

// ParseValue reads one override value written as YAML, such as the right
// hand side of a key=value flag.
func ParseValue(raw string) (interface{}, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return nodeValue(doc.Content[0])
}

func nodeValue(n *yaml.Node) (interface{}, error) {
	if n.Kind == yaml.MappingNode {
		return n, nil
	}
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
