package domain

import (
	"fmt"
	"strings"
)

// MaxPathLength is the longest path, in characters, the target platform accepts
const MaxPathLength = 260

// ProblemKind identifies one of the migration problems an item can have
type ProblemKind string

const (
	// ProblemPathTooLong means the full path exceeds MaxPathLength
	ProblemPathTooLong ProblemKind = "path_too_long"

	// ProblemInvalidCharacters means the base name contains a forbidden character
	ProblemInvalidCharacters ProblemKind = "invalid_characters"

	// ProblemUnsupportedExtension means the file extension is on the blocklist
	ProblemUnsupportedExtension ProblemKind = "unsupported_extension"
)

// ItemKind distinguishes files from directories in an Issue
type ItemKind string

const (
	ItemFile      ItemKind = "file"
	ItemDirectory ItemKind = "directory"
)

// Problem is a single detected problem. Only the fields relevant to Kind are set.
type Problem struct {
	// Kind is the problem variant
	Kind ProblemKind `json:"kind" yaml:"kind"`

	// ExcessChars is how far the path is over the limit (ProblemPathTooLong only)
	ExcessChars int `json:"excess_chars,omitempty" yaml:"excess_chars,omitempty"`

	// Extension is the blocked extension (ProblemUnsupportedExtension only)
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty"`
}

// PathTooLong builds a ProblemPathTooLong with the given excess
func PathTooLong(excess int) Problem {
	return Problem{Kind: ProblemPathTooLong, ExcessChars: excess}
}

// InvalidCharacters builds a ProblemInvalidCharacters
func InvalidCharacters() Problem {
	return Problem{Kind: ProblemInvalidCharacters}
}

// UnsupportedExtension builds a ProblemUnsupportedExtension for ext
func UnsupportedExtension(ext string) Problem {
	return Problem{Kind: ProblemUnsupportedExtension, Extension: ext}
}

// Description returns the human-readable text shown in reports
func (p Problem) Description() string {
	switch p.Kind {
	case ProblemPathTooLong:
		return fmt.Sprintf("Path exceeds %d characters (by %d characters)", MaxPathLength, p.ExcessChars)
	case ProblemInvalidCharacters:
		return "Contains invalid characters"
	case ProblemUnsupportedExtension:
		return fmt.Sprintf("Unsupported file type (%s)", p.Extension)
	default:
		return string(p.Kind)
	}
}

// Issue is a file or directory that would fail to migrate
type Issue struct {
	// Name is the base name of the item
	Name string `json:"name" yaml:"name"`

	// Path is the full path as walked
	Path string `json:"path" yaml:"path"`

	// Kind tells whether the item is a file or a directory
	Kind ItemKind `json:"kind" yaml:"kind"`

	// Problems are in detection order: path length, invalid characters, extension
	Problems []Problem `json:"problems" yaml:"problems"`

	// SuggestedFix holds one remediation clause per problem, in the same order
	SuggestedFix string `json:"suggested_fix" yaml:"suggested_fix"`
}

// IsFile reports whether the issue refers to a file
func (i Issue) IsFile() bool {
	return i.Kind == ItemFile
}

// Has reports whether the issue contains a problem of the given kind
func (i Issue) Has(kind ProblemKind) bool {
	for _, p := range i.Problems {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// Summary joins the problem descriptions the way the report's Issue column shows them
func (i Issue) Summary() string {
	parts := make([]string, 0, len(i.Problems))
	for _, p := range i.Problems {
		parts = append(parts, p.Description())
	}
	return strings.Join(parts, "; ")
}

// ScanWarning records a subtree that was skipped during the walk
type ScanWarning struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}
