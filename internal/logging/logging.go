// Package logging configures the logrus logger used across migscan
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	DefaultLevel  = "warn"
	DefaultFormat = FormatText
)

var formats = map[string]func() logrus.Formatter{
	FormatText: func() logrus.Formatter {
		return &logrus.TextFormatter{DisableTimestamp: true}
	},
	FormatJSON: func() logrus.Formatter {
		return new(logrus.JSONFormatter)
	},
}

// FormatNames returns the supported log formats in sorted order
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config holds the logging settings requested by the user
type Config struct {
	level  logrus.Level
	format logrus.Formatter
	output io.Writer
}

// NewConfig returns the default configuration: warn level, text format, stderr
func NewConfig() *Config {
	return &Config{
		level:  logrus.WarnLevel,
		format: formats[DefaultFormat](),
		output: os.Stderr,
	}
}

// SetLevel parses and applies a level name. An empty string keeps the current level.
func (c *Config) SetLevel(levelString string) error {
	if levelString == "" {
		return nil
	}
	level, err := logrus.ParseLevel(levelString)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	c.level = level
	return nil
}

// SetFormat selects the formatter. An empty string keeps the current format.
func (c *Config) SetFormat(format string) error {
	if format == "" {
		return nil
	}
	newFormatter, ok := formats[format]
	if !ok {
		return fmt.Errorf("unknown log format %q, expected one of: %v", format, FormatNames())
	}
	c.format = newFormatter()
	return nil
}

// SetOutput redirects log output
func (c *Config) SetOutput(w io.Writer) {
	if w != nil {
		c.output = w
	}
}

// Level returns the configured level
func (c *Config) Level() logrus.Level {
	return c.level
}

// NewLogger builds a fresh logger from the configuration
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(c.output)
	logger.SetFormatter(c.format)
	logger.SetLevel(c.level)
	return logger
}

// New is a shortcut for building a logger from level and format names
func New(level, format string, w io.Writer) (*logrus.Logger, error) {
	c := NewConfig()
	if err := c.SetLevel(level); err != nil {
		return nil, err
	}
	if err := c.SetFormat(format); err != nil {
		return nil, err
	}
	c.SetOutput(w)
	return c.NewLogger(), nil
}

// ValidLevel reports whether name is a level logrus understands
func ValidLevel(name string) bool {
	_, err := logrus.ParseLevel(name)
	return err == nil
}

// ValidFormat reports whether name is a supported log format
func ValidFormat(name string) bool {
	_, ok := formats[name]
	return ok
}
