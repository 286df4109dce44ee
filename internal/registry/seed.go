package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads a seed file from disk and applies it with LoadSeed.
func LoadSeedFile(ctx context.Context, store Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed %s: %w", path, err)
	}
	return LoadSeed(ctx, store, data)
}

// LoadSeed persists a YAML mapping of registry path to value, in document
// order. It returns the number of keys written.
func LoadSeed(ctx context.Context, store Store, data []byte) (int, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse seed: %w", err)
	}
	if len(doc.Content) == 0 {
		return 0, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return 0, fmt.Errorf("parse seed: expected a mapping of paths, line %d", root.Line)
	}

	written := 0
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return written, fmt.Errorf("parse seed: value of %s must be a string, line %d", key.Value, value.Line)
		}
		if err := store.Persist(ctx, key.Value, value.Value); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
