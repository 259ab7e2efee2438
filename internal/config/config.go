// Package config handles the drixl CLI configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI settings.
type Config struct {
	Redis RedisConfig `json:"redis"`
	Relay RelayConfig `json:"relay"`

	// VerbsFile is an optional YAML file with custom verb definitions,
	// merged into the standard vocabulary at startup.
	VerbsFile string `json:"verbs_file,omitempty"`
}

// RedisConfig configures the Redis context store backend.
type RedisConfig struct {
	URL string `json:"url,omitempty"`
}

// RelayConfig configures the websocket relay server.
type RelayConfig struct {
	Port int `json:"port,omitempty"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Redis: RedisConfig{URL: "redis://localhost:6379"},
		Relay: RelayConfig{Port: 8465},
	}
}

// GetConfigPath returns the default config file path (~/.drixl/config.json).
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".drixl", "config.json")
}

// Load reads configuration from a JSON file. If path is empty, the default
// config path is used. A missing file yields DefaultConfig().
func Load(path string) (Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}

	cfg := DefaultConfig() // start with defaults so zero-value fields get filled
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes configuration to a JSON file. If path is empty, the default
// config path is used.
func Save(cfg Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
