package config

import (
	"os"
	"strconv"
)

// SettingSource represents where an effective setting value comes from.
type SettingSource string

const (
	SourceEnv     SettingSource = "env"
	SourceFile    SettingSource = "file"
	SourceBuiltin SettingSource = "builtin"
)

// SettingStatus describes one effective setting for status reporting.
type SettingStatus struct {
	Name   string        `json:"name"`
	Value  string        `json:"value"`
	Source SettingSource `json:"source"`
}

// CheckSettings reports the chart and server settings operators most
// often need to verify, with the source each value came from.
func CheckSettings(cfg *Config) []SettingStatus {
	return []SettingStatus{
		checkSetting("chart.color_scheme", cfg.Chart.ColorScheme, "VIZPREP_CHART_COLOR_SCHEME", "default"),
		checkSetting("chart.max_bubble_size", formatFloat(cfg.Chart.MaxBubbleSize), "VIZPREP_CHART_MAX_BUBBLE_SIZE", "25"),
		checkSetting("chart.opacity", formatFloat(cfg.Chart.Opacity), "VIZPREP_CHART_OPACITY", "0.6"),
		checkSetting("server.host", cfg.Server.Host, "VIZPREP_SERVER_HOST", "0.0.0.0"),
		checkSetting("server.port", strconv.Itoa(cfg.Server.Port), "VIZPREP_SERVER_PORT", "8080"),
		checkSetting("limits.rate_limit", strconv.Itoa(cfg.Limits.RateLimit), "VIZPREP_LIMITS_RATE_LIMIT", "50"),
		checkSetting("export.output_dir", cfg.Export.OutputDir, "VIZPREP_EXPORT_OUTPUT_DIR", "."),
	}
}

// checkSetting determines where a value came from: the environment wins,
// then any deviation from the builtin default is attributed to the
// config file.
func checkSetting(name, value, envVar, builtin string) SettingStatus {
	status := SettingStatus{
		Name:  name,
		Value: value,
	}
	switch {
	case os.Getenv(envVar) != "":
		status.Source = SourceEnv
	case value != builtin:
		status.Source = SourceFile
	default:
		status.Source = SourceBuiltin
	}
	return status
}

// formatFloat renders a float the way it appears in config files, with
// no trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
