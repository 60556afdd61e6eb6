package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project directory and its parents
const FileName = ".depcheck.yaml"

// Supported output formats
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSarif = "sarif"
)

// Config represents the configuration for the dependency checker
type Config struct {
	// File suffixes to scan for module references
	Extensions []string `yaml:"extensions"`

	// Parse JSX syntax
	JSX bool `yaml:"jsx"`

	// Directory names to skip, in addition to VCS and install directories
	IgnoreDirs []string `yaml:"ignoreDirs"`

	// Glob patterns of dependency names that are never reported
	IgnoreMatches []string `yaml:"ignoreMatches"`

	// Skip devDependencies entirely
	WithoutDev bool `yaml:"withoutDev"`

	// Output configuration
	Output struct {
		Format string `yaml:"format"` // text, json, sarif
		File   string `yaml:"file"`   // Output file path (stdout if empty)
	} `yaml:"output"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	config := &Config{
		Extensions: []string{".js"},
	}

	// Set default output format
	config.Output.Format = FormatText

	return config
}

// LoadConfig loads the configuration from the specified file path
// If no path is provided, it looks for .depcheck.yaml in the current directory
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config path provided, look in current directory
	if configPath == "" {
		configPath = FileName
	}

	// Check if the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, return default config
		return config, nil
	}

	if err := readInto(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// FindAndLoadConfig searches for a config file in the project directory and its parents
func FindAndLoadConfig(projectPath string) (*Config, error) {
	config := DefaultConfig()

	currentDir, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", projectPath, err)
	}

	// Start from the project directory and work up to the root
	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			if err := readInto(configPath, config); err != nil {
				return nil, err
			}
			return config, nil
		}

		// Move up to the parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached the root directory, no config file found
			break
		}
		currentDir = parentDir
	}

	// No config file found, return default config
	return config, nil
}

func readInto(configPath string, config *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", configPath, err)
	}

	return config.Validate()
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatSarif:
	default:
		return fmt.Errorf("unsupported output format %q (expected text, json or sarif)", c.Output.Format)
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}
