package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the jfix configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the jfix configuration directory
const ConfigDirName = ".jfix"

// Config holds all jfix configuration
type Config struct {
	Fix    FixConfig    `yaml:"fix"`
	Scan   ScanConfig   `yaml:"scan"`
	Output OutputConfig `yaml:"output"`
}

// FixConfig holds configuration for the builder fix
type FixConfig struct {
	Annotation    string `yaml:"annotation"`
	BuilderMethod string `yaml:"builder_method"`
	// ShortenReferences is a pointer so an explicit false in the config
	// file is distinguishable from the field being absent.
	ShortenReferences *bool `yaml:"shorten_references"`
}

// ShortenEnabled reports whether inserted annotations should be written
// with their simple name plus an import. Unset means true.
func (c FixConfig) ShortenEnabled() bool {
	return c.ShortenReferences == nil || *c.ShortenReferences
}

// ScanConfig holds configuration for workspace scanning
type ScanConfig struct {
	Exclude []string `yaml:"exclude"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .jfix/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, return defaults
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Merge with defaults
	merged := Merge(loaded, DefaultConfig())

	// Validate the merged config
	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .jfix directory by walking up from startDir.
// Returns the path to the .jfix directory if found.
func FindConfigDir(startDir string) (string, error) {
	// Get absolute path
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		// Move to parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root, config not found
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .jfix directory if it doesn't exist.
// Returns the path to the .jfix directory.
func EnsureConfigDir(workDir string) (string, error) {
	// Get absolute path
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	// Check if it already exists
	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	// Create the directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	// Validate annotation (must be a dotted Java name)
	if err := validateJavaName(cfg.Fix.Annotation, true); err != nil {
		return fmt.Errorf("%w: annotation %q: %v", ErrInvalidConfig, cfg.Fix.Annotation, err)
	}

	// Validate builder method (must be a plain identifier)
	if err := validateJavaName(cfg.Fix.BuilderMethod, false); err != nil {
		return fmt.Errorf("%w: builder_method %q: %v", ErrInvalidConfig, cfg.Fix.BuilderMethod, err)
	}

	// Validate output format
	if !IsValidFormat(cfg.Output.DefaultFormat) {
		return fmt.Errorf("%w: default_format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.DefaultFormat)
	}

	return nil
}

// validateJavaName checks that a name is a Java identifier, optionally
// allowing package qualification.
func validateJavaName(name string, allowDots bool) error {
	if name == "" {
		return errors.New("must not be empty")
	}
	parts := []string{name}
	if allowDots {
		parts = strings.Split(name, ".")
	}
	for _, part := range parts {
		if part == "" {
			return errors.New("has an empty segment")
		}
		for i, r := range part {
			if r == '_' || r == '$' ||
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(i > 0 && r >= '0' && r <= '9') {
				continue
			}
			return fmt.Errorf("contains invalid character %q", r)
		}
	}
	return nil
}

// SaveDefault writes the default configuration to .jfix/config.yaml in workDir.
// Creates the .jfix directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	// Add header comment
	header := "# jfix CLI configuration\n# See https://github.com/anthropics/jfix for documentation\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
