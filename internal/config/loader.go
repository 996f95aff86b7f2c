package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the YAML file consulted when no path is given.
const DefaultPath = "./config.yaml"

// Load builds the configuration from ENV, an optional YAML file and the
// env-default tags, in that order of precedence, and validates the result.
//
// The file is taken from path, then from CONFIG_PATH. A file named either way
// must exist. When neither is set, DefaultPath is read if present.
func Load(path string) (*Config, error) {
	path, required := resolvePath(path)

	var cfg Config
	switch err := readInto(&cfg, path); {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !required:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	default:
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func resolvePath(flagPath string) (path string, required bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env, true
	}
	return DefaultPath, false
}

func readInto(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config: file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}
