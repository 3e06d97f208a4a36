// Package api — configuration management endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/vizprep/vizprep/internal/config"
)

// configMu serialises writes to the config file.
var configMu sync.Mutex

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config     *config.Config `json:"config"`
	ConfigFile string         `json:"config_file"` // path to the active config file
}

// handleGetConfig returns the current (running) configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     s.cfg,
			ConfigFile: config.ConfigFilePath(),
		},
	})
}

// handleUpdateConfig merges the provided partial configuration into the
// running config, persists it to disk, and returns the updated config.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var incoming config.Config
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	configMu.Lock()
	defer configMu.Unlock()

	// Merge non-zero values from incoming into a scratch copy; reject the
	// whole update when the result does not validate.
	merged := *s.cfg
	mergeConfig(&merged, &incoming)
	if err := merged.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid configuration: "+err.Error())
		return
	}
	*s.cfg = merged

	// Persist to disk.
	cfgPath := config.ConfigFilePath()
	if err := config.SaveToFile(s.cfg, cfgPath); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save config: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     s.cfg,
			ConfigFile: cfgPath,
		},
	})
}

// handleConfigDefaults reports where each chart-facing setting came from:
// environment, config file, or built-in default.
func (s *Server) handleConfigDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckSettings(s.cfg),
	})
}

// mergeConfig copies non-zero/non-empty values from src into dst.
func mergeConfig(dst, src *config.Config) {
	// Server
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if len(src.Server.CORSOrigins) > 0 {
		dst.Server.CORSOrigins = src.Server.CORSOrigins
	}
	if src.Server.SessionTTL != 0 {
		dst.Server.SessionTTL = src.Server.SessionTTL
	}

	// Limits
	if src.Limits.MaxRows != 0 {
		dst.Limits.MaxRows = src.Limits.MaxRows
	}
	if src.Limits.MaxBatch != 0 {
		dst.Limits.MaxBatch = src.Limits.MaxBatch
	}
	if src.Limits.RateLimit != 0 {
		dst.Limits.RateLimit = src.Limits.RateLimit
	}
	if src.Limits.WSBuffer != 0 {
		dst.Limits.WSBuffer = src.Limits.WSBuffer
	}

	// Chart
	if src.Chart.ColorScheme != "" {
		dst.Chart.ColorScheme = src.Chart.ColorScheme
	}
	if src.Chart.MaxBubbleSize != 0 {
		dst.Chart.MaxBubbleSize = src.Chart.MaxBubbleSize
	}
	if src.Chart.Opacity != 0 {
		dst.Chart.Opacity = src.Chart.Opacity
	}

	// Export
	if src.Export.OutputDir != "" {
		dst.Export.OutputDir = src.Export.OutputDir
	}
	if src.Export.SheetName != "" {
		dst.Export.SheetName = src.Export.SheetName
	}

	// Logging
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}
