package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// MaxSourceBytes caps the source accepted by a single analyze request.
	MaxSourceBytes int     `toml:"max_source_bytes"`
	LogLevel       string  `toml:"log_level"`
	History        History `toml:"history"`
	Scanner        Scanner `toml:"scanner"`
}

type History struct {
	// Path of the SQLite analysis log. Empty disables history.
	Path string `toml:"path"`
}

type Scanner struct {
	Extensions  []string `toml:"extensions"`
	ExcludeDirs []string `toml:"exclude_dirs"`
}

func Default() *Config {
	return &Config{
		MaxSourceBytes: 10 << 20,
		LogLevel:       "info",
	}
}

// Load reads a TOML config file. A missing file is not an error: defaults
// apply, so the server runs with zero configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}
	if cfg.MaxSourceBytes <= 0 {
		cfg.MaxSourceBytes = 10 << 20
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
