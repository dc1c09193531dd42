// Package common provides shared utilities for pricebars
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for pricebars
type Config struct {
	Environment string          `toml:"environment" yaml:"environment"`
	Server      ServerConfig    `toml:"server" yaml:"server"`
	Dataset     DatasetConfig   `toml:"dataset" yaml:"dataset"`
	Chart       ChartConfig     `toml:"chart" yaml:"chart"`
	Scatter     ScatterConfig   `toml:"scatter" yaml:"scatter"`
	Cache       CacheConfig     `toml:"cache" yaml:"cache"`
	RateLimit   RateLimitConfig `toml:"rate_limit" yaml:"rate_limit"`
	Output      OutputConfig    `toml:"output" yaml:"output"`
	Logging     LoggingConfig   `toml:"logging" yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host" yaml:"host"`
	Port int    `toml:"port" yaml:"port"`
}

// DatasetConfig describes where price data is loaded from and how it is sampled.
type DatasetConfig struct {
	Path       string `toml:"path" yaml:"path"`
	Format     string `toml:"format" yaml:"format"` // "auto", "csv" or "json"
	Stride     int    `toml:"stride" yaml:"stride"`
	ReloadCron string `toml:"reload_cron" yaml:"reload_cron"` // empty disables scheduled reloads
}

// ChartConfig holds bar chart layout and colours.
type ChartConfig struct {
	Width          int     `toml:"width" yaml:"width"`
	Height         int     `toml:"height" yaml:"height"`
	Padding        float64 `toml:"padding" yaml:"padding"`
	FontSize       float64 `toml:"font_size" yaml:"font_size"`
	Background     string  `toml:"background" yaml:"background"`
	AxisColor      string  `toml:"axis_color" yaml:"axis_color"`
	BarColor       string  `toml:"bar_color" yaml:"bar_color"`
	HighlightColor string  `toml:"highlight_color" yaml:"highlight_color"`
	TextColor      string  `toml:"text_color" yaml:"text_color"`
}

// ScatterConfig holds settings for the date label scatter sketch.
type ScatterConfig struct {
	Seed     int64   `toml:"seed" yaml:"seed"`
	FontSize float64 `toml:"font_size" yaml:"font_size"`
}

// CacheConfig holds render cache settings.
type CacheConfig struct {
	TTL             string `toml:"ttl" yaml:"ttl"`
	CleanupInterval string `toml:"cleanup_interval" yaml:"cleanup_interval"`
}

// GetTTL parses and returns the cache entry lifetime
func (c *CacheConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetCleanupInterval parses and returns the cache sweep interval
func (c *CacheConfig) GetCleanupInterval() time.Duration {
	d, err := time.ParseDuration(c.CleanupInterval)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// RateLimitConfig limits request throughput across the HTTP API.
// RequestsPerSecond <= 0 disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `toml:"burst" yaml:"burst"`
}

// OutputConfig holds the directory rendered charts are exported to.
type OutputConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level" yaml:"level"`
	Format   string   `toml:"format" yaml:"format"`
	Outputs  []string `toml:"outputs" yaml:"outputs"`
	FilePath string   `toml:"file_path" yaml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Dataset: DatasetConfig{
			Path:   "data/meta_stock_data.csv",
			Format: "auto",
			Stride: 5,
		},
		Chart: ChartConfig{
			Width:          1200,
			Height:         600,
			Padding:        60,
			FontSize:       9,
			Background:     "f0f0f0",
			AxisColor:      "333333",
			BarColor:       "6495ed",
			HighlightColor: "ff8c00",
			TextColor:      "222222",
		},
		Scatter: ScatterConfig{
			Seed:     1,
			FontSize: 8,
		},
		Cache: CacheConfig{
			TTL:             "5m",
			CleanupInterval: "10m",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
		Output: OutputConfig{
			Path: "data/charts",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/pricebars.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := decodeConfig(path, data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func decodeConfig(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	default:
		return toml.Unmarshal(data, config)
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PRICEBARS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PRICEBARS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PRICEBARS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PRICEBARS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PRICEBARS_DATASET"); path != "" {
		config.Dataset.Path = path
	}

	if stride := os.Getenv("PRICEBARS_STRIDE"); stride != "" {
		if s, err := strconv.Atoi(stride); err == nil {
			config.Dataset.Stride = s
		}
	}

	if spec := os.Getenv("PRICEBARS_RELOAD_CRON"); spec != "" {
		config.Dataset.ReloadCron = spec
	}

	if path := os.Getenv("PRICEBARS_OUTPUT_PATH"); path != "" {
		config.Output.Path = path
	}
}

// Validate checks the settings a chart cannot be built without.
func (c *Config) Validate() error {
	if c.Dataset.Stride <= 0 {
		return fmt.Errorf("dataset.stride must be positive, got %d", c.Dataset.Stride)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.Chart.Width, c.Chart.Height)
	}
	if c.Chart.Padding < 0 {
		return fmt.Errorf("chart.padding must not be negative, got %g", c.Chart.Padding)
	}
	if 2*c.Chart.Padding >= float64(c.Chart.Width) || 2*c.Chart.Padding >= float64(c.Chart.Height) {
		return fmt.Errorf("chart.padding %g leaves no plot area in %dx%d", c.Chart.Padding, c.Chart.Width, c.Chart.Height)
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
