package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	envPrefix     = "GRIDCAST_"
	envConfigFile = "GRIDCAST_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GRIDCAST_CONFIG is set
//  3. env (prefix GRIDCAST_); GRIDCAST_TARGETS is comma separated
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// GRIDCAST_WINDOW_SIZE -> window_size; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "targets" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	// Slices are decoded into a nil field so a shorter list replaces the
	// default instead of overwriting its prefix.
	cfg := *base
	cfg.Targets = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if !k.Exists("targets") {
		cfg.Targets = base.Targets
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("%w: window_size must be positive, got %d", ErrInvalidConfig, c.WindowSize)
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("%w: targets must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Targets))
	for _, t := range c.Targets {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: targets must not contain empty names", ErrInvalidConfig)
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("%w: duplicate target %q", ErrInvalidConfig, t)
		}
		seen[t] = struct{}{}
	}
	if c.DataPath == "" {
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	}
	if c.ModelDir == "" {
		return fmt.Errorf("%w: model_dir must not be empty", ErrInvalidConfig)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
