// Package rules holds the per-item migration checks. Every function here is
// pure and total: no shared state, no error paths.
package rules

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ludo-technologies/migscan/domain"
)

// InvalidCharacters are the characters the target platform rejects in names
const InvalidCharacters = `~"#%&*:<>?/\{|}`

// Blocklist answers whether an extension is currently blocked
type Blocklist interface {
	Contains(ext string) bool
}

// PathLength returns the length of path in characters, not bytes
func PathLength(path string) int {
	return utf8.RuneCountInString(path)
}

// CheckPathLength reports a PathTooLong problem when path is longer than
// domain.MaxPathLength characters.
func CheckPathLength(path string) (domain.Problem, bool) {
	length := PathLength(path)
	if length <= domain.MaxPathLength {
		return domain.Problem{}, false
	}
	return domain.PathTooLong(length - domain.MaxPathLength), true
}

// CheckInvalidCharacters reports whether a base name contains any invalid
// character. Pass the base name only; separators in a full path would match.
func CheckInvalidCharacters(name string) bool {
	return strings.ContainsAny(name, InvalidCharacters)
}

// Extension returns the lowercase extension of the path's base name,
// including the leading dot, or "" when there is none. Only the last dot
// counts: "archive.tar.gz" yields ".gz".
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(filepath.Base(path)))
}

// CheckExtension reports an UnsupportedExtension problem when the file's
// extension is blocked. Never call it for directories.
func CheckExtension(path string, blocked Blocklist) (domain.Problem, bool) {
	ext := Extension(path)
	if ext == "" || blocked == nil || !blocked.Contains(ext) {
		return domain.Problem{}, false
	}
	return domain.UnsupportedExtension(ext), true
}

// Evaluate runs every applicable check against one item, in detection order
func Evaluate(path string, isDir bool, blocked Blocklist) []domain.Problem {
	var problems []domain.Problem

	if p, ok := CheckPathLength(path); ok {
		problems = append(problems, p)
	}
	if CheckInvalidCharacters(filepath.Base(path)) {
		problems = append(problems, domain.InvalidCharacters())
	}
	if !isDir {
		if p, ok := CheckExtension(path, blocked); ok {
			problems = append(problems, p)
		}
	}

	return problems
}

// SanitizeName replaces every invalid character in name with an underscore
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(InvalidCharacters, r) {
			return '_'
		}
		return r
	}, name)
}

// SuggestFix builds the remediation text, one clause per problem in the
// order the problems were detected.
func SuggestFix(problems []domain.Problem, name string, pathLength int) string {
	fixes := make([]string, 0, len(problems))
	for _, p := range problems {
		switch p.Kind {
		case domain.ProblemPathTooLong:
			excess := pathLength - domain.MaxPathLength
			fixes = append(fixes, fmt.Sprintf("Move to a shorter path (need to reduce by at least %d characters)", excess))
		case domain.ProblemInvalidCharacters:
			fixes = append(fixes, "Rename to: "+SanitizeName(name))
		case domain.ProblemUnsupportedExtension:
			fixes = append(fixes, "Convert to supported format or exclude from migration")
		}
	}
	return strings.Join(fixes, "; ")
}

// NewIssue evaluates an item and returns the Issue for it, or false when the
// item has no problems.
func NewIssue(path string, isDir bool, blocked Blocklist) (domain.Issue, bool) {
	problems := Evaluate(path, isDir, blocked)
	if len(problems) == 0 {
		return domain.Issue{}, false
	}

	name := filepath.Base(path)
	kind := domain.ItemFile
	if isDir {
		kind = domain.ItemDirectory
	}

	return domain.Issue{
		Name:         name,
		Path:         path,
		Kind:         kind,
		Problems:     problems,
		SuggestedFix: SuggestFix(problems, name, PathLength(path)),
	}, true
}
