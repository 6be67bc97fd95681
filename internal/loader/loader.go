// Package loader handles tool configuration loading and validation.
//
// This package is responsible for:
//   - Loading the YAML configuration file
//   - Expanding environment variables
//   - Applying defaults and validating the result
//   - Converting option strings into internal representations
package loader

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xtxerr/fioreport/config"
	"github.com/xtxerr/fioreport/internal/types"
)

// Config is the tool configuration.
type Config struct {
	// BeforeDir and AfterDir are the two snapshot directories to compare.
	BeforeDir string `yaml:"before_dir"`
	AfterDir  string `yaml:"after_dir"`

	// StackLevels selects which levels to load. Empty means all
	// supported levels.
	StackLevels []string `yaml:"stack_levels"`

	// Stats selects which statistics to load. Empty means all three.
	Stats []string `yaml:"stats"`

	// Workers bounds parallel run parsing. Zero means the default.
	Workers int `yaml:"workers"`

	// Export configures the Parquet export.
	Export ExportConfig `yaml:"export"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// ExportConfig configures the Parquet export.
type ExportConfig struct {
	// Dir is the output directory for exported files.
	Dir string `yaml:"dir"`

	// Compression is the Parquet compression algorithm:
	// snappy, zstd, lz4, gzip, none.
	Compression string `yaml:"compression"`

	// CompressionLevel applies to algorithms that support it.
	CompressionLevel int `yaml:"compression_level"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// JSON switches output to JSON format.
	JSON bool `yaml:"json"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Workers: config.DefaultRunWorkers,
		Export: ExportConfig{
			Dir:              "export",
			Compression:      config.DefaultCompression,
			CompressionLevel: config.DefaultCompressionLevel,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load loads configuration from a YAML file, expanding environment
// variables and applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.BeforeDir == "" {
		return fmt.Errorf("before_dir is required")
	}
	if c.AfterDir == "" {
		return fmt.Errorf("after_dir is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}

	if _, err := c.ParsedStackLevels(); err != nil {
		return err
	}
	if _, err := c.ParsedStats(); err != nil {
		return err
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	return nil
}

// ParsedStackLevels converts the configured level names. Empty config
// means every supported level.
func (c *Config) ParsedStackLevels() ([]types.StackLevel, error) {
	if len(c.StackLevels) == 0 {
		return types.StackLevels, nil
	}

	out := make([]types.StackLevel, 0, len(c.StackLevels))
	for _, name := range c.StackLevels {
		level, err := types.ParseStackLevel(name)
		if err != nil {
			return nil, err
		}
		out = append(out, level)
	}
	return out, nil
}

// ParsedStats converts the configured statistic names. Empty config means
// all three statistics.
func (c *Config) ParsedStats() ([]types.Statistic, error) {
	if len(c.Stats) == 0 {
		return types.Statistics, nil
	}

	out := make([]types.Statistic, 0, len(c.Stats))
	for _, name := range c.Stats {
		stat, err := types.ParseStatistic(name)
		if err != nil {
			return nil, err
		}
		out = append(out, stat)
	}
	return out, nil
}

// LogLevel converts the configured level name.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
