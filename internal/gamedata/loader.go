package gamedata

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type unmarshalFunc func(data []byte, v any) error

func decode[T any](filename, format string, unmarshal unmarshalFunc) (T, error) {
	var out T
	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return out, fmt.Errorf("read embedded %s: %w", filename, err)
	}
	if err := unmarshal(content, &out); err != nil {
		return out, fmt.Errorf("parse %s %s: %w", format, filename, err)
	}
	return out, nil
}

// Load decodes an embedded JSON data file.
func Load[T any](filename string) (T, error) {
	return decode[T](filename, "JSON", json.Unmarshal)
}

// LoadYAML decodes an embedded YAML data file.
func LoadYAML[T any](filename string) (T, error) {
	return decode[T](filename, "YAML", yaml.Unmarshal)
}

