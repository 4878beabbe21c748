// Package config provides configuration management for mcp-unity using Viper.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/gfxblit/mcp-unity/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "mcp-unity"

// Indentation style names accepted in config and on the command line.
const (
	IndentTabs   = "tabs"
	IndentSpaces = "spaces"
)

// Config represents the top-level configuration structure.
type Config struct {
	// ProjectRoot is the host project directory searched for a loose-asset
	// server installation and used for workspace-scoped clients.
	// Empty means the current working directory.
	ProjectRoot string `mapstructure:"project_root" yaml:"project_root"`

	// ServerPath overrides installation resolution entirely when set.
	ServerPath string `mapstructure:"server_path" yaml:"server_path"`

	// NpmPath is an optional explicit path to the npm executable.
	// When empty, PATH-based resolution with platform augmentation is used.
	NpmPath string `mapstructure:"npm_path" yaml:"npm_path"`

	// Indent selects the fragment indentation style: "tabs" or "spaces".
	Indent string `mapstructure:"indent" yaml:"indent"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	// Environment variable support: MCP_UNITY_NPM_PATH etc.
	viper.SetEnvPrefix("MCP_UNITY")
	viper.AutomaticEnv()

	viper.SetDefault("indent", IndentSpaces)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If the user asked for a specific file, missing is an error;
			// an implicit load falls back to defaults.
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// DefaultPath returns the location `config init` writes to.
// Returns: <ConfigHome>/mcp-unity/config.yaml
func DefaultPath() string {
	return filepath.Join(paths.ConfigHome(), AppName, "config.yaml")
}
