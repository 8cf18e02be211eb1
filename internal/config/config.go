package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/debson/internal/errors"
)

// Config represents the complete configuration for debson
type Config struct {
	Indent        int          `yaml:"indent"`
	NormalizeKeys bool         `yaml:"normalize_keys"`
	Workers       int          `yaml:"workers"`
	Output        OutputConfig `yaml:"output"`
	Dev           DevConfig    `yaml:"dev"`
}

// OutputConfig controls where and under what names JSON files are written
type OutputConfig struct {
	// Dir is the directory converted files are written to. Empty means
	// next to each input file.
	Dir string `yaml:"dir"`
	// SnakeCaseNames applies snake_case to the base name when an input has
	// no .bson/.db suffix to replace.
	SnakeCaseNames bool `yaml:"snake_case_names"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Indent:        2,
		NormalizeKeys: true,
		Workers:       1,
		Output: OutputConfig{
			Dir:            "",
			SnakeCaseNames: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file, layered over defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the converter cannot use
func (c *Config) Validate() error {
	if c.Indent < 1 || c.Indent > 8 {
		return fmt.Errorf("%w: indent must be between 1 and 8, got %d", errors.ErrInvalidConfig, c.Indent)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", errors.ErrInvalidConfig, c.Workers)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".debson.yml", ".debson.yaml", "debson.yml", "debson.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// FallbackName builds an output file name for an input whose name carries
// neither a .bson nor a .db suffix. The core naming rule (suffix
// replacement) lives in the converter; this is the caller-side policy for
// everything else.
func (c *Config) FallbackName(name string) string {
	if c.Output.SnakeCaseNames {
		dir, base := filepath.Split(name)
		if ext := filepath.Ext(base); ext != "" {
			base = strings.TrimSuffix(base, ext)
		}
		return dir + strcase.ToSnake(base) + ".json"
	}
	return name + ".json"
}
