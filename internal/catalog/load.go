package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a catalog document.
type File struct {
	Upgrades []UpgradeDefinition `yaml:"upgrades"`
	Levels   []LevelRequirement  `yaml:"levels"`
}

// LoadFile reads and validates a yaml catalog.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse validates a yaml catalog document.
func Parse(b []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Upgrades, f.Levels)
}
