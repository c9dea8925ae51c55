package config

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/migscan/internal/registry"
)

// TargetPlatform describes where the scanned tree is being migrated to
type TargetPlatform string

const (
	TargetGeneric    TargetPlatform = "generic"
	TargetSharePoint TargetPlatform = "sharepoint"
	TargetFileShare  TargetPlatform = "fileshare"
)

// Strictness represents how aggressive the blocklist is
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// PlatformPreset holds exclude patterns for a target platform
type PlatformPreset struct {
	ExcludePatterns []string
}

// StrictnessPreset holds the blocklist and gate for a strictness level
type StrictnessPreset struct {
	BlockedExtensions []string
	MinScore          float64
}

// GetPlatformPresets returns presets for the supported target platforms
func GetPlatformPresets() map[TargetPlatform]PlatformPreset {
	return map[TargetPlatform]PlatformPreset{
		TargetGeneric: {
			ExcludePatterns: []string{},
		},
		TargetSharePoint: {
			ExcludePatterns: []string{
				"~$*",
				"Thumbs.db",
				"desktop.ini",
				".DS_Store",
			},
		},
		TargetFileShare: {
			ExcludePatterns: []string{
				".git/",
				"node_modules/",
			},
		},
	}
}

// GetStrictnessPresets returns presets for the strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			BlockedExtensions: []string{".exe", ".dll"},
			MinScore:          0,
		},
		StrictnessStandard: {
			BlockedExtensions: append([]string{}, registry.DefaultBlocked...),
			MinScore:          0,
		},
		StrictnessStrict: {
			BlockedExtensions: []string{
				".exe", ".bat", ".cmd", ".dll", ".vbs",
				".com", ".msi", ".ps1", ".scr", ".jar", ".reg",
			},
			MinScore: 95,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(platform TargetPlatform, strictness Strictness) string {
	preset := GetPlatformPresets()[platform]
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# migscan configuration
# Settings here apply to every scan of this directory and its children.

# =============================================================================
# SCAN
# =============================================================================
scan:
  # File extensions that cannot be migrated. Case does not matter and the
  # leading dot is optional.
  blocked_extensions: ` + formatYAMLList(strict.BlockedExtensions) + `

  # Gitignore-style patterns, relative to the scanned directory, that are
  # skipped entirely (not counted, not checked).
  exclude_patterns: ` + formatYAMLList(preset.ExcludePatterns) + `

# =============================================================================
# OUTPUT
# =============================================================================
output:
  # Report format: text, json, yaml, csv, html
  format: text

  # Print a suggested fix under each issue in text reports
  show_suggestions: true

  # Only report files whose extension is blocked
  only_blocked: false

  # Exit with status 1 when the compliance score is below this value (0 = off)
  min_score: ` + strconv.FormatFloat(strict.MinScore, 'f', -1, 64) + `

# =============================================================================
# LOGGING
# =============================================================================
logging:
  # debug, info, warn, error
  level: warn

  # text or json
  format: text
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# migscan configuration (minimal)
scan:
  blocked_extensions: ` + formatYAMLList(registry.DefaultBlocked) + `
output:
  format: text
`
}

// formatYAMLList renders items as a single-line YAML flow sequence
func formatYAMLList(items []string) string {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, item := range items {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: item})
	}

	out, err := yaml.Marshal(node)
	if err != nil {
		return "[]"
	}
	return strings.TrimSpace(string(out))
}
