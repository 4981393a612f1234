// Package vars loads template variable bindings from files.
//
// Variable files are flat mappings from name to scalar value, in YAML or
// JSON. Scalars are stringified, so numeric and boolean values work:
//
//	name: Charles
//	port: 8080
//	pets: "woofers|rex"
//
// Pipe-separated list values need no special syntax; they are ordinary
// strings that the engine's multi-value and cycle directives split.
package vars

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads variable bindings from a file, auto-detecting format by
// extension. Supported extensions: .yaml, .yml, .json
func FromFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vars file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported vars file extension: %s", ext)
	}
}

// FromYAML parses YAML data into variable bindings.
func FromYAML(data []byte) (map[string]string, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return stringify(m)
}

// FromJSON parses JSON data into variable bindings.
func FromJSON(data []byte) (map[string]string, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return stringify(m)
}

// stringify converts decoded scalars to strings. Nested collections are
// rejected: variable files are flat name-to-value mappings.
func stringify(m map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("variable %q: nested values are not supported", k)
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out, nil
}
