package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arborix-labs/statetrie/internal/log"
)

// rawConfig mirrors the YAML file's structure before translation into
// Config.
type rawConfig struct {
	Store struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"store"`
	Seed []struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"seed"`
}

// Loader reads and validates the demo CLI's config file.
type Loader struct {
	log log.Logger
}

// NewLoader returns a Loader that logs its progress through the given
// Logger.
func NewLoader(logger log.Logger) *Loader {
	return &Loader{log: logger.With("component", "config-loader")}
}

// Load reads the YAML config file at path.
func (l *Loader) Load(path string) (*Config, error) {
	l.log.Info("load config", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if raw.Store.Backend == "" {
		raw.Store.Backend = "memory"
	}
	if raw.Store.Backend != "memory" && raw.Store.Backend != "badger" {
		return nil, fmt.Errorf("config: unsupported store backend %q", raw.Store.Backend)
	}
	if raw.Store.Backend == "badger" && raw.Store.Path == "" {
		return nil, fmt.Errorf("config: store.path is required for the badger backend")
	}

	cfg := &Config{
		Store: StoreConfig{Backend: raw.Store.Backend, Path: raw.Store.Path},
	}
	for i, s := range raw.Seed {
		if s.Key == "" {
			return nil, fmt.Errorf("config: seed entry at index %d is missing a key", i)
		}
		cfg.Seed = append(cfg.Seed, SeedEntry{Key: s.Key, Value: s.Value})
	}

	l.log.Debug("config loaded", "backend", cfg.Store.Backend, "seed_entries", len(cfg.Seed))
	return cfg, nil
}
