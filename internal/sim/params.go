package sim

import "sort"

// Namespace names the keys one collaborator accepts.
type Namespace struct {
	Name string
	Keys []string
}

// ParseOverrides copies each keyword into every namespace that accepts it.
// Unknown keywords are dropped, or reported as an
// *InvalidSimulationParameterError when strict is set.
func ParseOverrides(kwargs map[string]interface{}, namespaces []Namespace, strict bool) (map[string]map[string]interface{}, []string, error) {
	routed := make(map[string]map[string]interface{}, len(namespaces))
	for _, ns := range namespaces {
		routed[ns.Name] = make(map[string]interface{})
	}

	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dropped []string
	for _, k := range keys {
		targets := route(k, namespaces)
		if len(targets) == 0 {
			if strict {
				names := make([]string, len(namespaces))
				for i, n := range namespaces {
					names[i] = n.Name
				}
				return nil, nil, &InvalidSimulationParameterError{Key: k, Namespaces: names}
			}
			dropped = append(dropped, k)
			continue
		}
		for _, ns := range targets {
			routed[ns][k] = kwargs[k]
		}
	}
	return routed, dropped, nil
}

func route(key string, namespaces []Namespace) []string {
	var out []string
	for _, ns := range namespaces {
		for _, k := range ns.Keys {
			if k == key {
				out = append(out, ns.Name)
				break
			}
		}
	}
	return out
}
