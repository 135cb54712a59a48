// Package config loads the RLM configuration file (rlm-config.json,
// §6.2) and layers environment variable overrides on top of whatever
// was loaded from disk.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// RlmConfig mirrors the on-disk shape fixed by spec §6.2.
type RlmConfig struct {
	Version   int    `json:"version"`
	Enabled   bool   `json:"enabled"`
	Endpoint  string `json:"endpoint"`
	Model     string `json:"model"`
	TimeoutMs int    `json:"timeoutMs"`
	MaxTokens int    `json:"maxTokens"`

	ReplEnabled          bool `json:"replEnabled"`
	ReplMaxIterations    int  `json:"replMaxIterations"`
	ReplMaxLlmCalls      int  `json:"replMaxLlmCalls"`
	ReplTimeoutBudgetMs  int  `json:"replTimeoutBudgetMs"`
	ReplMaxOutputTokens  int  `json:"replMaxOutputTokens"`

	// Debug is not part of the documented wire shape but gates the
	// category file logger.
	Debug bool `json:"debug"`
}

// Default returns the documented defaults for a missing config file.
func Default() *RlmConfig {
	return &RlmConfig{
		Version:             1,
		Enabled:             false,
		Endpoint:            "localhost:11434",
		Model:               "",
		TimeoutMs:           5000,
		MaxTokens:           256,
		ReplEnabled:         false,
		ReplMaxIterations:   6,
		ReplMaxLlmCalls:     10,
		ReplTimeoutBudgetMs: 15000,
		ReplMaxOutputTokens: 512,
	}
}

// Load reads rlm-config.json at path, falling back to defaults when the
// file is absent, then applies TRAILER_MEMORY_* environment overrides.
// A ".env" file at envDir is loaded first (best-effort) so local
// development can set those variables without exporting them.
func Load(path, envDir string) (*RlmConfig, error) {
	if envDir != "" {
		_ = godotenv.Load(filepath.Join(envDir, ".env"))
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides layers TRAILER_MEMORY_* environment variables over
// whatever was loaded from disk; env always wins over file.
func (c *RlmConfig) applyEnvOverrides() {
	if v := os.Getenv("TRAILER_MEMORY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := os.Getenv("TRAILER_MEMORY_LLM_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("TRAILER_MEMORY_LLM_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("TRAILER_MEMORY_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutMs = n
		}
	}
	if v := os.Getenv("TRAILER_MEMORY_REPL_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ReplEnabled = b
		}
	}
	if v := os.Getenv("TRAILER_MEMORY_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// Save writes cfg as pretty JSON to path, creating parent directories
// as needed.
func (c *RlmConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
