// Package site describes observing sites.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/telesim/internal/coords"
)

var (
	ErrUnknownSite  = errors.New("site: unknown site")
	ErrInvalidParam = errors.New("site: invalid site parameter")
)

//go:embed sites.yml
var sitesYAML []byte

type Site struct {
	Name        string  `yaml:"-"`
	Description string  `yaml:"description"`
	Region      string  `yaml:"region"`
	Latitude    float64 `yaml:"latitude"`  // degrees
	Longitude   float64 `yaml:"longitude"` // degrees
	Altitude    float64 `yaml:"altitude"`  // meters
	Timezone    string  `yaml:"timezone"`
}

// Params lists the keys a site override may set.
var Params = []string{"description", "region", "latitude", "longitude", "altitude", "timezone"}

// EarthLocation is the site's geodetic position.
func (s *Site) EarthLocation() coords.EarthLocation {
	return coords.EarthLocation{Latitude: s.Latitude, Longitude: s.Longitude, Altitude: s.Altitude}
}

func (s *Site) Validate() error {
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("site %q: latitude %g out of range", s.Name, s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 360 {
		return fmt.Errorf("site %q: longitude %g out of range", s.Name, s.Longitude)
	}
	return nil
}

type Registry struct {
	nodes map[string]*yaml.Node
}

// LoadRegistry parses the sites shipped with telesim.
func LoadRegistry() (*Registry, error) {
	return NewRegistry(sitesYAML)
}

func NewRegistry(data []byte) (*Registry, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("site: parse registry: %w", err)
	}
	r := &Registry{nodes: make(map[string]*yaml.Node, len(raw))}
	for name := range raw {
		node := raw[name]
		r.nodes[name] = &node
	}
	return r, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a fresh copy of the named site with overrides applied.
func (r *Registry) Get(name string, overrides map[string]interface{}) (*Site, error) {
	node, ok := r.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownSite, name, strings.Join(r.Names(), ", "))
	}
	s := &Site{}
	if err := node.Decode(s); err != nil {
		return nil, fmt.Errorf("site %q: %w", name, err)
	}
	s.Name = name

	if len(overrides) > 0 {
		for k := range overrides {
			if !contains(Params, k) {
				return nil, fmt.Errorf("%w: '%s'", ErrInvalidParam, k)
			}
		}
		var patch yaml.Node
		if err := patch.Encode(overrides); err != nil {
			return nil, err
		}
		if err := patch.Decode(s); err != nil {
			return nil, fmt.Errorf("site %q: apply overrides: %w", name, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
