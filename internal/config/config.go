package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Storage    Storage    `yaml:"storage"`
	Categories Categories `yaml:"categories"`
	Auth       Auth       `yaml:"auth"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Storage struct {
	// Backend selects the persistence layer: "file" or "sqlite".
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

type Categories struct {
	// Seeds stay selectable even when no record uses them.
	Seeds []string `yaml:"seeds"`
}

type Auth struct {
	SessionTTLHours int `yaml:"session_ttl_hours"`
	CodeTTLMinutes  int `yaml:"code_ttl_minutes"`
	MaxCodeAttempts int `yaml:"max_code_attempts"`
}

func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Storage: Storage{
			Backend:    BackendFile,
			DataDir:    "data",
			SQLitePath: "data/receits.db",
		},
		Categories: Categories{
			Seeds: []string{"Development", "Marketing", "Personal"},
		},
		Auth: Auth{
			SessionTTLHours: 7 * 24,
			CodeTTLMinutes:  10,
			MaxCodeAttempts: 5,
		},
	}
}

// Load reads a YAML config file on top of the defaults and then applies
// environment overrides. A missing file is not an error; the defaults
// plus environment are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Storage.Backend != BackendFile && cfg.Storage.Backend != BackendSQLite {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return cfg, nil
}
