package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere
	envVars := []string{
		"VIZPREP_SERVER_HOST", "VIZPREP_SERVER_PORT", "VIZPREP_LIMITS_RATE_LIMIT",
		"VIZPREP_CHART_COLOR_SCHEME", "VIZPREP_CHART_MAX_BUBBLE_SIZE", "VIZPREP_CHART_OPACITY",
		"VIZPREP_EXPORT_OUTPUT_DIR", "VIZPREP_LOGGING_LEVEL",
	}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host: got %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.SessionTTL != 3600 {
		t.Errorf("Server.SessionTTL: got %d, want 3600", cfg.Server.SessionTTL)
	}

	// Limits defaults
	if cfg.Limits.MaxRows != 50000 {
		t.Errorf("Limits.MaxRows: got %d, want 50000", cfg.Limits.MaxRows)
	}
	if cfg.Limits.MaxBatch != 32 {
		t.Errorf("Limits.MaxBatch: got %d, want 32", cfg.Limits.MaxBatch)
	}
	if cfg.Limits.RateLimit != 50 {
		t.Errorf("Limits.RateLimit: got %d, want 50", cfg.Limits.RateLimit)
	}
	if cfg.Limits.WSBuffer != 256 {
		t.Errorf("Limits.WSBuffer: got %d, want 256", cfg.Limits.WSBuffer)
	}

	// Chart defaults
	if cfg.Chart.ColorScheme != "default" {
		t.Errorf("Chart.ColorScheme: got %q, want %q", cfg.Chart.ColorScheme, "default")
	}
	if cfg.Chart.MaxBubbleSize != 25 {
		t.Errorf("Chart.MaxBubbleSize: got %f, want 25", cfg.Chart.MaxBubbleSize)
	}
	if cfg.Chart.Opacity != 0.6 {
		t.Errorf("Chart.Opacity: got %f, want 0.6", cfg.Chart.Opacity)
	}

	// Export defaults
	if cfg.Export.OutputDir != "." {
		t.Errorf("Export.OutputDir: got %q, want %q", cfg.Export.OutputDir, ".")
	}
	if cfg.Export.SheetName != "Data" {
		t.Errorf("Export.SheetName: got %q, want %q", cfg.Export.SheetName, "Data")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("VIZPREP_SERVER_PORT", "9191")
	os.Setenv("VIZPREP_CHART_COLOR_SCHEME", "muted")
	defer func() {
		os.Unsetenv("VIZPREP_SERVER_PORT")
		os.Unsetenv("VIZPREP_CHART_COLOR_SCHEME")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port: got %d, want env override 9191", cfg.Server.Port)
	}
	if cfg.Chart.ColorScheme != "muted" {
		t.Errorf("Chart.ColorScheme: got %q, want env override %q", cfg.Chart.ColorScheme, "muted")
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
server:
  port: 9090
  session_ttl: 600
limits:
  max_rows: 1000
  rate_limit: 30
chart:
  color_scheme: "bright"
  max_bubble_size: 40
  opacity: 0.8
export:
  output_dir: "/tmp/charts"
  sheet_name: "Bubbles"
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	os.Unsetenv("VIZPREP_SERVER_PORT")
	os.Unsetenv("VIZPREP_CHART_COLOR_SCHEME")

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.SessionTTL != 600 {
		t.Errorf("Server.SessionTTL: got %d, want 600", cfg.Server.SessionTTL)
	}
	if cfg.Limits.MaxRows != 1000 {
		t.Errorf("Limits.MaxRows: got %d, want 1000", cfg.Limits.MaxRows)
	}
	if cfg.Limits.RateLimit != 30 {
		t.Errorf("Limits.RateLimit: got %d, want 30", cfg.Limits.RateLimit)
	}
	if cfg.Limits.MaxBatch != 32 {
		t.Errorf("Limits.MaxBatch should keep its default, got %d", cfg.Limits.MaxBatch)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host should keep its default, got %q", cfg.Server.Host)
	}
	if cfg.Chart.ColorScheme != "bright" {
		t.Errorf("Chart.ColorScheme: got %q, want %q", cfg.Chart.ColorScheme, "bright")
	}
	if cfg.Chart.MaxBubbleSize != 40 {
		t.Errorf("Chart.MaxBubbleSize: got %f, want 40", cfg.Chart.MaxBubbleSize)
	}
	if cfg.Chart.Opacity != 0.8 {
		t.Errorf("Chart.Opacity: got %f, want 0.8", cfg.Chart.Opacity)
	}
	if cfg.Export.OutputDir != "/tmp/charts" {
		t.Errorf("Export.OutputDir: got %q", cfg.Export.OutputDir)
	}
	if cfg.Export.SheetName != "Bubbles" {
		t.Errorf("Export.SheetName: got %q", cfg.Export.SheetName)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

// ── SaveToFile ──

func TestSaveToFileRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.Server.Port = 7070
	cfg.Chart.ColorScheme = "highContrast"

	if err := SaveToFile(cfg, cfgPath); err != nil {
		t.Fatalf("SaveToFile() error: %v", err)
	}

	loaded, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() after save: %v", err)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("Server.Port: got %d, want 7070", loaded.Server.Port)
	}
	if loaded.Chart.ColorScheme != "highContrast" {
		t.Errorf("Chart.ColorScheme: got %q, want %q", loaded.Chart.ColorScheme, "highContrast")
	}
	if loaded.Chart.Opacity != cfg.Chart.Opacity {
		t.Errorf("Chart.Opacity: got %f, want %f", loaded.Chart.Opacity, cfg.Chart.Opacity)
	}
}

// ── Validate ──

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"session ttl zero", func(c *Config) { c.Server.SessionTTL = 0 }},
		{"max rows zero", func(c *Config) { c.Limits.MaxRows = 0 }},
		{"max batch zero", func(c *Config) { c.Limits.MaxBatch = 0 }},
		{"negative rate limit", func(c *Config) { c.Limits.RateLimit = -1 }},
		{"ws buffer zero", func(c *Config) { c.Limits.WSBuffer = 0 }},
		{"zero bubble size", func(c *Config) { c.Chart.MaxBubbleSize = 0 }},
		{"opacity above one", func(c *Config) { c.Chart.Opacity = 1.5 }},
		{"opacity zero", func(c *Config) { c.Chart.Opacity = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should reject this config")
			}
		})
	}
}

// ── CheckSettings ──

func TestCheckSettingsBuiltin(t *testing.T) {
	envVars := []string{
		"VIZPREP_CHART_COLOR_SCHEME", "VIZPREP_CHART_MAX_BUBBLE_SIZE", "VIZPREP_CHART_OPACITY",
		"VIZPREP_SERVER_HOST", "VIZPREP_SERVER_PORT", "VIZPREP_LIMITS_RATE_LIMIT",
		"VIZPREP_EXPORT_OUTPUT_DIR",
	}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	statuses := CheckSettings(cfg)
	if len(statuses) != 7 {
		t.Fatalf("CheckSettings: got %d statuses, want 7", len(statuses))
	}
	for _, s := range statuses {
		if s.Source != SourceBuiltin {
			t.Errorf("setting %q source: got %q, want %q", s.Name, s.Source, SourceBuiltin)
		}
		if s.Value == "" {
			t.Errorf("setting %q has no value", s.Name)
		}
	}
}

func TestCheckSettingsSourceDetection(t *testing.T) {
	os.Unsetenv("VIZPREP_CHART_COLOR_SCHEME")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.Chart.ColorScheme = "muted"

	for _, s := range CheckSettings(cfg) {
		if s.Name == "chart.color_scheme" {
			if s.Source != SourceFile {
				t.Errorf("non-default value: got source %q, want %q", s.Source, SourceFile)
			}
			if s.Value != "muted" {
				t.Errorf("value: got %q, want %q", s.Value, "muted")
			}
		}
	}

	os.Setenv("VIZPREP_CHART_COLOR_SCHEME", "muted")
	defer os.Unsetenv("VIZPREP_CHART_COLOR_SCHEME")

	for _, s := range CheckSettings(cfg) {
		if s.Name == "chart.color_scheme" && s.Source != SourceEnv {
			t.Errorf("env-set value: got source %q, want %q", s.Source, SourceEnv)
		}
	}
}

// ── ConfigFilePath ──

func TestConfigFilePathNonEmpty(t *testing.T) {
	if p := ConfigFilePath(); p == "" {
		t.Error("ConfigFilePath() should not return empty string")
	}
}

func TestConfigFilePathEnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("VIZPREP_CONFIG", want)

	if got := ConfigFilePath(); got != want {
		t.Errorf("ConfigFilePath() = %q, want %q", got, want)
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if h := homeDir(); h == "" {
		t.Error("homeDir() should not return empty string")
	}
}
