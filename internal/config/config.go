package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version string        `yaml:"version" json:"version"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	Balance Balance       `yaml:"balance" json:"balance"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// StorageConfig selects the persistence driver for player state and events.
// "file" keeps JSON snapshots under DataDir, "sqlite" uses a single database
// file at SQLitePath (created on first start), "memory" keeps nothing across
// restarts and exists for tests and local hacking.
type StorageConfig struct {
	Driver     string `yaml:"driver" json:"driver"`
	DataDir    string `yaml:"data_dir" json:"data_dir"`
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

// CatalogConfig points at the upgrade/level-requirement catalog file.
// When Path is empty the built-in seed catalog is used.
type CatalogConfig struct {
	Path string `yaml:"path" json:"path"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/tapforge.db"
	}
	c.Balance.ApplyDefaults()
}

// Load reads the yaml config at path. A missing file is not an error: the
// server runs fine on defaults plus the built-in catalog.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var r Config
			r.ApplyDefaults()
			return &r, nil
		}
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}
