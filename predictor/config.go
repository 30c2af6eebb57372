package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact and config locations used when nothing else is configured.
const (
	defaultConfigFile  = "config.json"
	defaultModelFile   = "asthma_rf.onnx"
	defaultSchemaFile  = "feature_order.json"
	defaultLoadRetries = 3
)

// Environment overrides for artifact locations. They win over config.json.
const (
	EnvModelPath  = "ASTHMARISK_MODEL"
	EnvSchemaPath = "ASTHMARISK_SCHEMA"
	EnvOrtLibrary = "ASTHMARISK_ORT_LIB"
)

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields defaults, not an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvModelPath); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv(EnvSchemaPath); v != "" {
		cfg.SchemaPath = v
	}
	if v := os.Getenv(EnvOrtLibrary); v != "" {
		cfg.OrtLibrary = v
	}
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
