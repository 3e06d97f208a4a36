// Package config handles configuration loading for vizprep.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"  json:"server"`
	Limits  LimitsConfig  `mapstructure:"limits"  yaml:"limits"  json:"limits"`
	Chart   ChartConfig   `mapstructure:"chart"   yaml:"chart"   json:"chart"`
	Export  ExportConfig  `mapstructure:"export"  yaml:"export"  json:"export"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// ServerConfig holds HTTP API server settings.
type ServerConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"         json:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"         json:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`
	SessionTTL  int      `mapstructure:"session_ttl"  yaml:"session_ttl"  json:"session_ttl"` // seconds
}

// LimitsConfig holds request shedding and sizing limits.
type LimitsConfig struct {
	MaxRows   int `mapstructure:"max_rows"   yaml:"max_rows"   json:"max_rows"`   // rows per transform request
	MaxBatch  int `mapstructure:"max_batch"  yaml:"max_batch"  json:"max_batch"`  // items per batch request
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"` // requests per second, 0 disables
	WSBuffer  int `mapstructure:"ws_buffer"  yaml:"ws_buffer"  json:"ws_buffer"`  // per-client send queue
}

// ChartConfig holds fallback chart options applied when a request omits
// the corresponding form control.
type ChartConfig struct {
	ColorScheme   string  `mapstructure:"color_scheme"    yaml:"color_scheme"    json:"color_scheme"`
	MaxBubbleSize float64 `mapstructure:"max_bubble_size" yaml:"max_bubble_size" json:"max_bubble_size"`
	Opacity       float64 `mapstructure:"opacity"         yaml:"opacity"         json:"opacity"`
}

// ExportConfig holds workbook export settings.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name" json:"sheet_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.vizprep/config.yaml (home directory)
//  3. /etc/vizprep/config.yaml (system)
//
// Environment variables override config file values.
// Format: VIZPREP_<SECTION>_<KEY>, e.g., VIZPREP_SERVER_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".vizprep"))
	v.AddConfigPath("/etc/vizprep")

	v.SetEnvPrefix("VIZPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("VIZPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// SaveToFile writes the configuration to path as YAML, creating parent
// directories as needed.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file %s: %w", path, err)
	}
	return nil
}

// ConfigFilePath returns the active config file path: the VIZPREP_CONFIG
// override when set, otherwise the first existing file in the search
// order, or the home-directory default when none exists yet.
func ConfigFilePath() string {
	if p := os.Getenv("VIZPREP_CONFIG"); p != "" {
		return p
	}
	candidates := []string{
		filepath.Join("config", "config.yaml"),
		filepath.Join(homeDir(), ".vizprep", "config.yaml"),
		filepath.Join("/etc/vizprep", "config.yaml"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return candidates[1]
}

// Validate checks the configuration for values the application cannot
// run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive, got %d", c.Server.SessionTTL)
	}
	if c.Limits.MaxRows <= 0 {
		return fmt.Errorf("limits.max_rows must be positive, got %d", c.Limits.MaxRows)
	}
	if c.Limits.MaxBatch <= 0 {
		return fmt.Errorf("limits.max_batch must be positive, got %d", c.Limits.MaxBatch)
	}
	if c.Limits.RateLimit < 0 {
		return fmt.Errorf("limits.rate_limit must not be negative, got %d", c.Limits.RateLimit)
	}
	if c.Limits.WSBuffer <= 0 {
		return fmt.Errorf("limits.ws_buffer must be positive, got %d", c.Limits.WSBuffer)
	}
	if c.Chart.MaxBubbleSize <= 0 {
		return fmt.Errorf("chart.max_bubble_size must be positive, got %g", c.Chart.MaxBubbleSize)
	}
	if c.Chart.Opacity <= 0 || c.Chart.Opacity > 1 {
		return fmt.Errorf("chart.opacity must be in (0, 1], got %g", c.Chart.Opacity)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q unknown", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q unknown", c.Logging.Format)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.session_ttl", 3600) // 1 hour

	// Limits defaults
	v.SetDefault("limits.max_rows", 50000)
	v.SetDefault("limits.max_batch", 32)
	v.SetDefault("limits.rate_limit", 50)
	v.SetDefault("limits.ws_buffer", 256)

	// Chart defaults
	v.SetDefault("chart.color_scheme", "default")
	v.SetDefault("chart.max_bubble_size", 25)
	v.SetDefault("chart.opacity", 0.6)

	// Export defaults
	v.SetDefault("export.output_dir", ".")
	v.SetDefault("export.sheet_name", "Data")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
