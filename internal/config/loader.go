package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the Glider Run configuration.
// Search order: customPath -> ~/.arcade/configs/glider.yaml -> ./configs/glider.yaml -> embedded default.
// Files only need to name the values they change; the rest keep their defaults.
func Load(customPath string) (GliderConfig, error) {
	// Try custom path first
	if customPath != "" {
		return LoadFile(customPath)
	}

	// Try user config directory
	if userCfgPath := userConfigPath("glider.yaml"); userCfgPath != "" {
		if cfg, err := LoadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := LoadFile(filepath.Join("configs", "glider.yaml")); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultGliderYAML)
	if err != nil {
		return DefaultGliderConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadFile reads and validates a single config file.
func LoadFile(path string) (GliderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GliderConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return GliderConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (GliderConfig, error) {
	cfg := DefaultGliderConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GliderConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return GliderConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
