package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Beastly713/stegano/pkg/format"
)

// Config captures the defaults used by the CLI, resolved from built-in values,
// optional YAML files and environment overrides.
type Config struct {
	Channel      int           `yaml:"channel"`
	Strict       bool          `yaml:"strict"`
	OutputFormat format.Format `yaml:"output_format"`
	Workers      int           `yaml:"workers"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Channel:      0,
		Strict:       false,
		OutputFormat: format.PNG,
		Workers:      4,
		LogLevel:     "warn",
	}
}

// Load resolves the configuration. Later sources win:
//  1. built-in defaults
//  2. ~/.stegano/config.yml
//  3. ./stegano.yml
//  4. explicit (if non-empty; must exist)
//  5. STEGANO_* environment variables
func Load(explicit string) (Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if err := loadOptional(&cfg, filepath.Join(home, ".stegano", "config.yml")); err != nil {
			return Config{}, err
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("determine working directory: %w", err)
	}
	if err := loadOptional(&cfg, filepath.Join(wd, "stegano.yml")); err != nil {
		return Config{}, err
	}

	if explicit != "" {
		data, err := os.ReadFile(explicit)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", explicit, err)
		}
		if err := applyFileConfig(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", explicit, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the codec cannot honour.
func (c Config) Validate() error {
	if c.Channel < 0 || c.Channel > 3 {
		return fmt.Errorf("channel must be 0-3, got %d", c.Channel)
	}
	if !c.OutputFormat.Lossless() {
		return fmt.Errorf("output_format %q is not a lossless format (use png, bmp or tiff)", c.OutputFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		return fmt.Errorf("log_level %q is not a known level (debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

func loadOptional(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// fileConfig uses pointers so absent keys leave earlier layers alone.
type fileConfig struct {
	Channel      *int    `yaml:"channel"`
	Strict       *bool   `yaml:"strict"`
	OutputFormat *string `yaml:"output_format"`
	Workers      *int    `yaml:"workers"`
	LogLevel     *string `yaml:"log_level"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Channel != nil {
		cfg.Channel = *fc.Channel
	}
	if fc.Strict != nil {
		cfg.Strict = *fc.Strict
	}
	if fc.OutputFormat != nil {
		f, ok := format.Parse(*fc.OutputFormat)
		if !ok {
			return fmt.Errorf("unknown output_format %q", *fc.OutputFormat)
		}
		cfg.OutputFormat = f
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*fc.LogLevel)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("STEGANO_CHANNEL")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("STEGANO_CHANNEL: %w", err)
		}
		cfg.Channel = n
	}
	if val := strings.TrimSpace(os.Getenv("STEGANO_STRICT")); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("STEGANO_STRICT: %w", err)
		}
		cfg.Strict = b
	}
	if val := strings.TrimSpace(os.Getenv("STEGANO_FORMAT")); val != "" {
		f, ok := format.Parse(val)
		if !ok {
			return fmt.Errorf("STEGANO_FORMAT: unknown format %q", val)
		}
		cfg.OutputFormat = f
	}
	if val := strings.TrimSpace(os.Getenv("STEGANO_WORKERS")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("STEGANO_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if val := strings.TrimSpace(os.Getenv("STEGANO_LOG_LEVEL")); val != "" {
		cfg.LogLevel = val
	}
	return nil
}
