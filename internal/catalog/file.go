package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile represents the YAML catalog file structure.
type catalogFile struct {
	Items []Item `yaml:"items"`
}

// LoadFile reads catalog items from a YAML file.
func LoadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML (or JSON) catalog document.
func Parse(data []byte) ([]Item, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, ErrEmptyCatalog
	}
	return doc.Items, nil
}
