// Package metadata loads project metadata files (project.yaml) into a
// key-value mapping for template rendering.
package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the metadata file does not exist.
	// It also matches fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("missing project metadata file: %w", fs.ErrNotExist)

	// ErrMalformed is returned when the file is not valid YAML.
	ErrMalformed = errors.New("malformed project metadata")

	// ErrNotMapping is returned when the YAML document is not a mapping.
	ErrNotMapping = errors.New("project metadata must be a mapping")
)

// Load reads a YAML file and returns its top-level mapping.
// An empty document yields an empty mapping.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading project metadata %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes YAML bytes into a mapping. source is used in error messages.
func Parse(data []byte, source string) (map[string]any, error) {
	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, source, err)
	}
	if parsed == nil {
		return map[string]any{}, nil
	}

	switch mapping := parsed.(type) {
	case map[string]any:
		return mapping, nil
	case map[any]any:
		// yaml.v3 uses this shape when any key is not a string.
		converted := make(map[string]any, len(mapping))
		for key, value := range mapping {
			converted[fmt.Sprint(key)] = value
		}
		return converted, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotMapping, source)
	}
}
