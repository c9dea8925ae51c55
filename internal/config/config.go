package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/migscan/internal/constants"
	"github.com/ludo-technologies/migscan/internal/logging"
	"github.com/ludo-technologies/migscan/internal/registry"
)

// Default output settings
const (
	DefaultOutputFormat = "text"

	// DefaultMinScore disables the compliance gate
	DefaultMinScore = 0.0
)

var validOutputFormats = []string{"text", "json", "yaml", "csv", "html"}

// Config represents the main configuration structure
type Config struct {
	// Scan holds the rules applied while walking the tree
	Scan ScanConfig `json:"scan" mapstructure:"scan" yaml:"scan"`

	// Output holds report configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Logging holds logger configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// ScanConfig holds configuration for the directory walk
type ScanConfig struct {
	// BlockedExtensions is the initial blocklist. Each entry is normalized
	// the same way the registry does it (".EXE", "exe" and "exe " are equal).
	BlockedExtensions []string `json:"blocked_extensions" mapstructure:"blocked_extensions" yaml:"blocked_extensions"`

	// ExcludePatterns are gitignore-style patterns, relative to the scanned root
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv, html
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowSuggestions controls whether suggested fixes are printed in text output
	ShowSuggestions bool `json:"show_suggestions" mapstructure:"show_suggestions" yaml:"show_suggestions"`

	// OnlyBlocked shows only file issues whose extension is blocked
	OnlyBlocked bool `json:"only_blocked" mapstructure:"only_blocked" yaml:"only_blocked"`

	// MinScore fails the run when the shown score is below it (0 disables)
	MinScore float64 `json:"min_score" mapstructure:"min_score" yaml:"min_score"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level" yaml:"level"`
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			BlockedExtensions: append([]string{}, registry.DefaultBlocked...),
			ExcludePatterns:   []string{},
		},
		Output: OutputConfig{
			Format:          DefaultOutputFormat,
			ShowSuggestions: true,
			OnlyBlocked:     false,
			MinScore:        DefaultMinScore,
		},
		Logging: LoggingConfig{
			Level:  logging.DefaultLevel,
			Format: logging.DefaultFormat,
		},
	}
}

// LoadConfig loads configuration from a file or returns the defaults
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration, discovering the file from
// targetPath upward when configPath is empty
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = FindConfigFile(targetPath)
	}
	return loadConfigFromFile(configPath)
}

func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// A list in the file replaces the default list instead of merging into it
	if v.IsSet("scan.blocked_extensions") {
		config.Scan.BlockedExtensions = nil
	}
	if v.IsSet("scan.exclude_patterns") {
		config.Scan.ExcludePatterns = nil
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Candidates lists the config file names searched in each directory, in order
func Candidates() []string {
	return []string{
		constants.ToolName + ".yaml",
		constants.ToolName + ".yml",
		"." + constants.ToolName + ".yaml",
		"." + constants.ToolName + ".yml",
		"." + constants.ToolName + ".toml",
		constants.ToolName + ".json",
		"." + constants.ToolName + ".json",
	}
}

func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindConfigFile looks for a config file next to the scanned directory and
// its ancestors, then the working directory, then the user config directory.
// It returns "" when none exists.
func FindConfigFile(targetPath string) string {
	candidates := Candidates()

	if targetPath != "" {
		if absPath, err := filepath.Abs(targetPath); err == nil {
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(configDir, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	for i, ext := range c.Scan.BlockedExtensions {
		if registry.Normalize(ext) == "" {
			return fmt.Errorf("scan.blocked_extensions[%d] must not be blank", i)
		}
	}

	for i, pattern := range c.Scan.ExcludePatterns {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("scan.exclude_patterns[%d] must not be blank", i)
		}
	}

	if !isValidOutputFormat(c.Output.Format) {
		return fmt.Errorf("invalid output format '%s', must be one of: %s",
			c.Output.Format, strings.Join(validOutputFormats, ", "))
	}

	if c.Output.MinScore < 0 || c.Output.MinScore > 100 {
		return fmt.Errorf("output.min_score must be between 0 and 100, got %g", c.Output.MinScore)
	}

	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid logging.level '%s'", c.Logging.Level)
	}

	if c.Logging.Format != "" && !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("invalid logging.format '%s', must be one of: %s",
			c.Logging.Format, strings.Join(logging.FormatNames(), ", "))
	}

	return nil
}

func isValidOutputFormat(format string) bool {
	for _, f := range validOutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// NormalizedBlockedExtensions returns the configured blocklist in registry form
func (c *Config) NormalizedBlockedExtensions() []string {
	return registry.NewWith(c.Scan.BlockedExtensions...).Sorted()
}

// SaveConfig writes the configuration to path; the format follows the file extension
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}

	v.Set("scan", config.Scan)
	v.Set("output", config.Output)
	v.Set("logging", config.Logging)

	return v.WriteConfig()
}
