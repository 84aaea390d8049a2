package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PipelineConfig holds the knobs of the document send-out pipeline.
// Loaded once from config/pipeline_config.json with env overrides; every
// value has a safe default so the pipeline can run from a bare checkout.
type PipelineConfig struct {
	// SendOutHour: wall-clock hour (0-23) of the daily trigger firing.
	SendOutHour int `json:"sendOutHour"`

	// TimeZone: IANA zone all send-out-day math happens in.
	TimeZone string `json:"timeZone"`

	// StaggerMillis: enforced gap between bulk job dispatch starts.
	// This protects the email provider's per-connection message cap;
	// it is a backpressure valve, not a tunable performance knob.
	StaggerMillis int `json:"staggerMillis"`

	// MaxConcurrentJobs: batch runner concurrency. Kept at 1 for the
	// same provider-rate-limit reason as StaggerMillis.
	MaxConcurrentJobs int `json:"maxConcurrentJobs"`

	// DocumentRootFolderID: Drive folder all venue folders nest under.
	DocumentRootFolderID string `json:"documentRootFolderId"`
}

var (
	globalConfig *PipelineConfig
	configMutex  sync.RWMutex
	configPath   = "config/pipeline_config.json"
)

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() *PipelineConfig {
	return &PipelineConfig{
		SendOutHour:       8,
		TimeZone:          "America/Chicago",
		StaggerMillis:     3000,
		MaxConcurrentJobs: 1,
	}
}

// LoadConfig reads configuration from config/pipeline_config.json.
// Missing file or parse errors fall back to defaults.
func LoadConfig() *PipelineConfig {
	configMutex.RLock()
	if globalConfig != nil {
		configMutex.RUnlock()
		return globalConfig
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	if globalConfig != nil {
		return globalConfig
	}

	cfg := DefaultConfig()

	possiblePaths := []string{
		configPath,
		filepath.Join(".", configPath),
		filepath.Join("..", configPath),
	}

	var data []byte
	var err error

	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
				fmt.Printf("[WARN] Failed to parse config from %s: %v. Using defaults.\n", path, jsonErr)
				cfg = DefaultConfig()
			} else {
				fmt.Printf("[INFO] Loaded pipeline config from %s\n", path)
			}
			break
		}
	}

	if err != nil {
		fmt.Printf("[WARN] Config file not found. Using defaults: sendOutHour=%d, staggerMillis=%d\n",
			cfg.SendOutHour, cfg.StaggerMillis)
	}

	// Env override: the Drive root is deployment-specific and usually
	// comes from the environment, not the checked-in file.
	if root := os.Getenv("DRIVE_DOCUMENT_ROOT"); root != "" {
		cfg.DocumentRootFolderID = root
	}

	validate(cfg)

	globalConfig = cfg
	return globalConfig
}

// SaveConfig persists configuration to file and swaps the global copy
func SaveConfig(cfg *PipelineConfig) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	validate(cfg)

	configMutex.Lock()
	defer configMutex.Unlock()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	globalConfig = cfg
	return nil
}

// GetConfig returns the current configuration (thread-safe)
func GetConfig() *PipelineConfig {
	return LoadConfig()
}

func validate(cfg *PipelineConfig) {
	if cfg.SendOutHour < 0 || cfg.SendOutHour > 23 {
		cfg.SendOutHour = 8
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = "America/Chicago"
	}
	if cfg.StaggerMillis < 0 {
		cfg.StaggerMillis = 3000
	}
	if cfg.MaxConcurrentJobs < 1 {
		cfg.MaxConcurrentJobs = 1
	}
}
