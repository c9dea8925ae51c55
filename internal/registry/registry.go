// Package registry holds the mutable set of blocked file extensions.
package registry

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// DefaultBlocked is the built-in blocklist: executables and scripts
var DefaultBlocked = []string{".exe", ".bat", ".cmd", ".dll", ".vbs"}

// ExtensionRegistry is the set of blocked extensions. Every element is
// lowercase, non-empty and starts with a dot. It is owned by one scanner
// and is not safe for concurrent mutation.
type ExtensionRegistry struct {
	blocked map[string]struct{}
}

// New creates a registry holding the default blocklist
func New() *ExtensionRegistry {
	r := &ExtensionRegistry{}
	r.Reset()
	return r
}

// NewWith creates a registry holding exactly the given extensions
func NewWith(exts ...string) *ExtensionRegistry {
	r := &ExtensionRegistry{blocked: make(map[string]struct{}, len(exts))}
	r.AddAll(exts...)
	return r
}

// Normalize lowercases ext and prefixes a dot when missing. Blank input
// normalizes to "". A bare dot is kept: it is the extension of names ending
// in a dot.
func Normalize(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Add blocks ext. Adding an extension twice is a no-op.
func (r *ExtensionRegistry) Add(ext string) {
	if ext = Normalize(ext); ext != "" {
		r.blocked[ext] = struct{}{}
	}
}

// AddAll blocks every extension in exts
func (r *ExtensionRegistry) AddAll(exts ...string) {
	for _, ext := range exts {
		r.Add(ext)
	}
}

// Remove unblocks ext; removing an absent extension is not an error
func (r *ExtensionRegistry) Remove(ext string) {
	delete(r.blocked, Normalize(ext))
}

// Reset restores the default blocklist, discarding all customization
func (r *ExtensionRegistry) Reset() {
	r.blocked = make(map[string]struct{}, len(DefaultBlocked))
	for _, ext := range DefaultBlocked {
		r.blocked[ext] = struct{}{}
	}
}

// Replace swaps the whole blocklist for exts
func (r *ExtensionRegistry) Replace(exts ...string) {
	r.blocked = make(map[string]struct{}, len(exts))
	r.AddAll(exts...)
}

// Toggle flips the blocked state of ext and returns the new state
func (r *ExtensionRegistry) Toggle(ext string) bool {
	ext = Normalize(ext)
	if ext == "" {
		return false
	}
	if _, ok := r.blocked[ext]; ok {
		delete(r.blocked, ext)
		return false
	}
	r.blocked[ext] = struct{}{}
	return true
}

// Contains reports whether ext is blocked. ext is normalized first.
func (r *ExtensionRegistry) Contains(ext string) bool {
	if r == nil {
		return false
	}
	_, ok := r.blocked[Normalize(ext)]
	return ok
}

// Snapshot returns a copy of the blocklist; changing it does not affect r
func (r *ExtensionRegistry) Snapshot() map[string]struct{} {
	out := make(map[string]struct{}, len(r.blocked))
	for ext := range r.blocked {
		out[ext] = struct{}{}
	}
	return out
}

// Sorted returns the blocklist in lexicographic order
func (r *ExtensionRegistry) Sorted() []string {
	exts := lo.Keys(r.blocked)
	sort.Strings(exts)
	return exts
}

// Len returns the number of blocked extensions
func (r *ExtensionRegistry) Len() int {
	return len(r.blocked)
}
