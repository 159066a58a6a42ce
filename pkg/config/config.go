package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the pitkit configuration
type Config struct {
	DataDir string  `yaml:"data_dir"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	Output  Output  `yaml:"output"`
}

// Server contains HTTP API configuration
type Server struct {
	Port   int    `yaml:"port"`
	Bind   string `yaml:"bind"`
	APIKey string `yaml:"api_key"`

	// MaxUploadSize bounds request bodies carrying raw PIT data
	MaxUploadSize int64 `yaml:"max_upload_size"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Output controls how the CLI renders tables
type Output struct {
	Format string `yaml:"format"`
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"text": true, "json": true}
	validOutputs = map[string]bool{"table": true, "json": true}
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Server: Server{
			Port:          8080,
			Bind:          "127.0.0.1",
			APIKey:        "auto",
			MaxUploadSize: 1 << 20,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Output: Output{
			Format: "table",
		},
	}
}

// Validate checks enumerated settings and ranges
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("invalid max upload size: %d", c.Server.MaxUploadSize)
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}
	if !validOutputs[c.Output.Format] {
		return fmt.Errorf("invalid output format: %q", c.Output.Format)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file carries the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated API key and saves it
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./pitkit.yaml"
	}

	// ~/.config/pitkit/config.yaml
	return filepath.Join(homeDir, ".config", "pitkit", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
