package domain

import (
	"context"
	"io"
	"time"

	"github.com/ludo-technologies/migscan/internal/compliance"
	"github.com/ludo-technologies/migscan/internal/registry"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatHTML OutputFormat = "html"
)

// ValidOutputFormats lists every format accepted on the command line and in config
var ValidOutputFormats = []OutputFormat{
	OutputFormatText,
	OutputFormatJSON,
	OutputFormatYAML,
	OutputFormatCSV,
	OutputFormatHTML,
}

// IsValid reports whether f is a known output format
func (f OutputFormat) IsValid() bool {
	for _, v := range ValidOutputFormats {
		if f == v {
			return true
		}
	}
	return false
}

// ScanResult is everything a single scan produced. It belongs to the caller
// once Scan returns.
type ScanResult struct {
	// Root is the scanned directory as given by the caller
	Root string `json:"root" yaml:"root"`

	// Issues are in traversal order
	Issues []Issue `json:"issues" yaml:"issues"`

	// TotalFiles counts files only; directories never count
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// CompliantFiles counts files with zero problems
	CompliantFiles int `json:"compliant_files" yaml:"compliant_files"`

	// DiscoveredExtensions is sorted, unique, lowercase, with a leading dot
	DiscoveredExtensions []string `json:"discovered_extensions" yaml:"discovered_extensions"`

	// Warnings lists subtrees that could not be listed and were skipped
	Warnings []ScanWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	ScannedAt time.Time     `json:"scanned_at" yaml:"scanned_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// ComplianceScore returns the scan-time score in [0, 100]
func (r *ScanResult) ComplianceScore() float64 {
	return compliance.Score(r.CompliantFiles, r.TotalFiles)
}

// ScanRequest represents a request to scan one directory
type ScanRequest struct {
	// Root is the directory to scan
	Root string

	// Output configuration
	OutputFormat    OutputFormat
	OutputWriter    io.Writer
	OutputPath      string // write the report to this file instead of OutputWriter
	ShowSuggestions bool
	NoColor         bool

	// BlockedExtensions is the initial blocklist, usually from the config
	// file. Nil means the built-in defaults.
	BlockedExtensions []string

	// Extension blocklist adjustments, applied in order: reset, block, allow
	ResetExtensions bool
	BlockExtensions []string
	AllowExtensions []string

	// ExcludePatterns are gitignore-style patterns relative to Root
	ExcludePatterns []string

	// OnlyBlocked renders the filtered view (file issues with a blocked extension)
	OnlyBlocked bool

	// MinScore is the compliance gate; 0 disables it
	MinScore float64

	// ConfigPath is the config file the request was built from, if any
	ConfigPath string
}

// ScanResponse is the view rendered by the output formatters
type ScanResponse struct {
	Root string `json:"root" yaml:"root"`

	// Issues shown: the full list, or the filtered view when Filtered is set
	Issues   []Issue `json:"issues" yaml:"issues"`
	Filtered bool    `json:"filtered" yaml:"filtered"`

	TotalFiles      int     `json:"total_files" yaml:"total_files"`
	CompliantFiles  int     `json:"compliant_files" yaml:"compliant_files"`
	IssueCount      int     `json:"issue_count" yaml:"issue_count"`
	ComplianceScore float64 `json:"compliance_score" yaml:"compliance_score"`
	Grade           string  `json:"grade" yaml:"grade"`

	BlockedExtensions    []string      `json:"blocked_extensions" yaml:"blocked_extensions"`
	DiscoveredExtensions []string      `json:"discovered_extensions" yaml:"discovered_extensions"`
	Warnings             []ScanWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
	Version     string `json:"version" yaml:"version"`
}

// ScanService defines the core workflow behind the scan command
type ScanService interface {
	// Scan walks req.Root and returns the response for the requested view
	Scan(ctx context.Context, req ScanRequest) (*ScanResponse, error)

	// View rebuilds the response from the last scan against the current blocklist
	View(filtered bool) (*ScanResponse, error)

	// Registry is the live blocklist used by Scan and View
	Registry() *registry.ExtensionRegistry

	// DiscoveredExtensions lists the extensions found by the last scan
	DiscoveredExtensions() []string
}

// OutputFormatter defines the interface for rendering scan responses
type OutputFormatter interface {
	// Write writes the response in the given format
	Write(response *ScanResponse, format OutputFormat, writer io.Writer) error
}
