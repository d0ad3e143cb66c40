package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnv overrides file-based settings. Environment wins over the
// config file so deployments can tweak a setting without editing it.
func applyEnv(cfg *Config) {
	if v := os.Getenv("RECEIT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RECEIT_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("RECEIT_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("RECEIT_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("RECEIT_SEED_CATEGORIES"); v != "" {
		seeds := []string{}
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				seeds = append(seeds, c)
			}
		}
		if len(seeds) > 0 {
			cfg.Categories.Seeds = seeds
		}
	}
	if v := getEnvInt("RECEIT_SESSION_TTL_HOURS"); v > 0 {
		cfg.Auth.SessionTTLHours = v
	}
	if v := getEnvInt("RECEIT_CODE_TTL_MINUTES"); v > 0 {
		cfg.Auth.CodeTTLMinutes = v
	}
	if v := getEnvInt("RECEIT_MAX_CODE_ATTEMPTS"); v > 0 {
		cfg.Auth.MaxCodeAttempts = v
	}
}

func getEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
