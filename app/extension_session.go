package app

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/registry"
)

// ExtensionEntry is one row of the extension manager
type ExtensionEntry struct {
	Extension string `json:"extension" yaml:"extension"`
	Blocked   bool   `json:"blocked" yaml:"blocked"`

	// Present is false for blocked extensions that do not occur in the tree
	Present bool `json:"present" yaml:"present"`
}

// ExtensionSession edits the blocklist after a scan and recomputes the
// filtered view without rescanning
type ExtensionSession struct {
	service domain.ScanService
}

// NewExtensionSession creates a session over svc
func NewExtensionSession(svc domain.ScanService) *ExtensionSession {
	return &ExtensionSession{service: svc}
}

// Entries lists every discovered extension plus every blocked one, sorted
func (s *ExtensionSession) Entries() []ExtensionEntry {
	reg := s.service.Registry()
	discovered := s.service.DiscoveredExtensions()

	all := lo.Uniq(append(append([]string{}, discovered...), reg.Sorted()...))
	sort.Strings(all)

	return lo.Map(all, func(ext string, _ int) ExtensionEntry {
		return ExtensionEntry{
			Extension: ext,
			Blocked:   reg.Contains(ext),
			Present:   lo.Contains(discovered, ext),
		}
	})
}

// Toggle flips ext and returns its new state with the refreshed view
func (s *ExtensionSession) Toggle(ext string) (bool, *domain.ScanResponse, error) {
	blocked := s.service.Registry().Toggle(ext)
	resp, err := s.View()
	return blocked, resp, err
}

// Add blocks ext
func (s *ExtensionSession) Add(ext string) (*domain.ScanResponse, error) {
	if registry.Normalize(ext) == "" {
		return nil, domain.NewInvalidInputError("extension is empty", nil)
	}
	s.service.Registry().Add(ext)
	return s.View()
}

// Remove unblocks ext
func (s *ExtensionSession) Remove(ext string) (*domain.ScanResponse, error) {
	s.service.Registry().Remove(ext)
	return s.View()
}

// Reset restores the default blocklist
func (s *ExtensionSession) Reset() (*domain.ScanResponse, error) {
	s.service.Registry().Reset()
	return s.View()
}

// Apply replaces the blocklist with exactly exts
func (s *ExtensionSession) Apply(exts []string) (*domain.ScanResponse, error) {
	s.service.Registry().Replace(exts...)
	return s.View()
}

// View returns the filtered view against the current blocklist
func (s *ExtensionSession) View() (*domain.ScanResponse, error) {
	return s.service.View(true)
}
