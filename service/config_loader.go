package service

import (
	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/config"
)

// ConfigurationLoaderImpl turns config files into scan requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from path, or discovers it from target when
// path is empty. Without any config file the defaults are used.
func (c *ConfigurationLoaderImpl) LoadConfig(path, target string) (*domain.ScanRequest, *config.Config, error) {
	if path == "" {
		path = config.FindConfigFile(target)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, domain.NewConfigError("failed to load configuration file", err)
	}

	req := c.convertToScanRequest(cfg)
	req.ConfigPath = path
	return req, cfg, nil
}

// MergeConfig applies the non-zero fields of override on top of base.
// Extension adjustments and exclude patterns are appended, never replaced.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ScanRequest, override *domain.ScanRequest) *domain.ScanRequest {
	merged := *base

	if override.Root != "" {
		merged.Root = override.Root
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.NoColor {
		merged.NoColor = true
	}

	if override.BlockedExtensions != nil {
		merged.BlockedExtensions = append([]string{}, override.BlockedExtensions...)
	}
	if override.ResetExtensions {
		merged.ResetExtensions = true
	}
	merged.BlockExtensions = append(append([]string{}, base.BlockExtensions...), override.BlockExtensions...)
	merged.AllowExtensions = append(append([]string{}, base.AllowExtensions...), override.AllowExtensions...)
	merged.ExcludePatterns = append(append([]string{}, base.ExcludePatterns...), override.ExcludePatterns...)

	if override.OnlyBlocked {
		merged.OnlyBlocked = true
	}
	if override.MinScore > 0 {
		merged.MinScore = override.MinScore
	}

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

func (c *ConfigurationLoaderImpl) convertToScanRequest(cfg *config.Config) *domain.ScanRequest {
	return &domain.ScanRequest{
		OutputFormat:      domain.OutputFormat(cfg.Output.Format),
		ShowSuggestions:   cfg.Output.ShowSuggestions,
		BlockedExtensions: append([]string{}, cfg.Scan.BlockedExtensions...),
		ExcludePatterns:   append([]string{}, cfg.Scan.ExcludePatterns...),
		OnlyBlocked:       cfg.Output.OnlyBlocked,
		MinScore:          cfg.Output.MinScore,
	}
}
