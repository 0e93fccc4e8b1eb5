// Package config loads the fluent.yaml file used by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "fluent.yaml"

// Config is the file-level configuration. Command-line flags override it.
type Config struct {
	LogLevel string             `yaml:"log_level"`
	Retry    domain.RetryPolicy `yaml:"retry"`
	Journal  Journal            `yaml:"journal"`
	Server   Server             `yaml:"server"`
}

// Journal configures where journals go besides stdout.
type Journal struct {
	// Redis is the address of a Redis server. Empty disables the Redis sink.
	Redis string        `yaml:"redis"`
	Key   string        `yaml:"key"`
	TTL   time.Duration `yaml:"ttl"`
}

// Server configures `fluent serve`.
type Server struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Retry:    domain.DefaultRetryPolicy(),
		Journal:  Journal{Key: "fluent:journal"},
		Server:   Server{Addr: ":4444"},
	}
}

// Load reads path (YAML or JSON) over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw YAML or JSON over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		Result:      &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the runtime cannot honor.
func (c Config) Validate() error {
	r := c.Retry
	switch {
	case r.MaxAttempts < 0:
		return fmt.Errorf("retry.max_attempts must not be negative: %w", domain.ErrInvalidArgument)
	case r.MaxElapsed < 0, r.InitialBackoff < 0, r.MaxBackoff < 0:
		return fmt.Errorf("retry durations must not be negative: %w", domain.ErrInvalidArgument)
	case r.Multiplier < 0:
		return fmt.Errorf("retry.multiplier must not be negative: %w", domain.ErrInvalidArgument)
	case c.Journal.TTL < 0:
		return fmt.Errorf("journal.ttl must not be negative: %w", domain.ErrInvalidArgument)
	}
	return nil
}
