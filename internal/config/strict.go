package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// strictKeys rejects any YAML mapping key not present in allowed, per
// spec §6 ("Unknown fields anywhere: reject with a config error"). node
// must be a mapping node (kind yaml.MappingNode).
func strictKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected a mapping", ErrConfig)
	}

	known := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		known[k] = struct{}{}
	}

	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, ok := known[key]; !ok {
			return fmt.Errorf("%w: unknown field %q at line %d", ErrConfig, key, node.Content[i].Line)
		}
	}

	return nil
}
