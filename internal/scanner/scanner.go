// Package scanner walks a directory tree and evaluates every file and
// directory against the migration rules.
//
// A scan makes two passes over the tree. The discovery pass records every
// file extension present, independent of the blocklist, so callers can offer
// a complete and stable set of extensions to block. The validation pass runs
// the rules and accumulates issues and counters. The passes must stay
// separate: discovery never depends on the blocklist.
package scanner

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/compliance"
	"github.com/ludo-technologies/migscan/internal/registry"
	"github.com/ludo-technologies/migscan/internal/rules"
)

// Scanner owns one extension registry and the result of its most recent scan
type Scanner struct {
	fs       afero.Fs
	registry *registry.ExtensionRegistry
	logger   logrus.FieldLogger
	progress domain.ProgressManager
	ignore   *ignore.GitIgnore

	last *domain.ScanResult
}

// Option configures a Scanner
type Option func(*Scanner)

// WithFs sets the filesystem to scan (defaults to the OS filesystem)
func WithFs(fs afero.Fs) Option {
	return func(s *Scanner) {
		s.fs = fs
	}
}

// WithRegistry sets the extension registry the scanner owns
func WithRegistry(r *registry.ExtensionRegistry) Option {
	return func(s *Scanner) {
		s.registry = r
	}
}

// WithLogger sets the logger (defaults to a discarding logger)
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithProgress reports validation-pass progress to pm
func WithProgress(pm domain.ProgressManager) Option {
	return func(s *Scanner) {
		s.progress = pm
	}
}

// WithIgnorePatterns excludes items matching the gitignore-style patterns,
// evaluated relative to the scan root, from both passes.
func WithIgnorePatterns(patterns ...string) Option {
	return func(s *Scanner) {
		if len(patterns) == 0 {
			s.ignore = nil
			return
		}
		s.ignore = ignore.CompileIgnoreLines(patterns...)
	}
}

// New creates a scanner with the default blocklist over the OS filesystem
func New(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}

	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	if s.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.logger = l
	}

	return s
}

// SetIgnorePatterns replaces the exclude patterns used by the next scan
func (s *Scanner) SetIgnorePatterns(patterns ...string) {
	WithIgnorePatterns(patterns...)(s)
}

// Registry returns the registry owned by the scanner. Changes to it are
// reflected by FilteredIssues without rescanning.
func (s *Scanner) Registry() *registry.ExtensionRegistry {
	return s.registry
}

// Scan walks root and replaces the previous result. It fails with a
// DIRECTORY_NOT_FOUND error when root is missing or not a directory and with
// PERMISSION_DENIED when root itself cannot be listed. Subtrees that cannot
// be listed are skipped and reported as warnings.
func (s *Scanner) Scan(ctx context.Context, root string) (*domain.ScanResult, error) {
	start := time.Now()
	log := s.logger.WithField("root", root)

	info, err := s.fs.Stat(root)
	if err != nil {
		if os.IsPermission(err) {
			return nil, domain.NewPermissionDeniedError(root, err)
		}
		return nil, domain.NewDirectoryNotFoundError(root, err)
	}
	if !info.IsDir() {
		return nil, domain.NewDirectoryNotFoundError(root, nil)
	}

	entries, err := s.readDir(root, root)
	if err != nil {
		return nil, domain.NewPermissionDeniedError(root, err)
	}

	w := &walk{
		scanner:    s,
		ctx:        ctx,
		root:       root,
		log:        log,
		discovered: make(map[string]struct{}),
		result: &domain.ScanResult{
			Root:   root,
			Issues: make([]domain.Issue, 0),
		},
	}

	log.Info("Starting discovery pass")
	fileCount, err := w.discover(root, entries)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"files":      fileCount,
		"extensions": len(w.discovered),
	}).Info("Discovery pass complete")

	var task domain.TaskProgress = noopTask{}
	if s.progress != nil {
		task = s.progress.StartTask("Checking items", fileCount)
	}
	defer task.Complete()

	log.Info("Starting validation pass")
	if err := w.validate(root, entries, task); err != nil {
		return nil, err
	}

	result := w.result
	result.DiscoveredExtensions = sortedKeys(w.discovered)
	result.ScannedAt = start
	result.Duration = time.Since(start)

	log.WithFields(logrus.Fields{
		"files":     result.TotalFiles,
		"compliant": result.CompliantFiles,
		"issues":    len(result.Issues),
		"warnings":  len(result.Warnings),
	}).Info("Scan complete")

	s.last = result
	return cloneResult(result), nil
}

// Result returns a copy of the most recent result, or nil before any scan
func (s *Scanner) Result() *domain.ScanResult {
	if s.last == nil {
		return nil
	}
	return cloneResult(s.last)
}

// CurrentDirectory returns the root of the most recent scan
func (s *Scanner) CurrentDirectory() (string, bool) {
	if s.last == nil {
		return "", false
	}
	return s.last.Root, true
}

// DiscoveredExtensions returns the extensions present in the last scanned tree
func (s *Scanner) DiscoveredExtensions() []string {
	if s.last == nil {
		return []string{}
	}
	return append([]string{}, s.last.DiscoveredExtensions...)
}

// FilteredIssues returns the file issues of the last scan whose extension is
// blocked right now. It is recomputed on every call from the current
// registry, not from the blocklist in effect at scan time.
func (s *Scanner) FilteredIssues() []domain.Issue {
	if s.last == nil {
		return []domain.Issue{}
	}
	filtered := lo.Filter(s.last.Issues, func(issue domain.Issue, _ int) bool {
		return issue.IsFile() && s.registry.Contains(rules.Extension(issue.Path))
	})
	return lo.Map(filtered, func(issue domain.Issue, _ int) domain.Issue {
		return cloneIssue(issue)
	})
}

// ComplianceScore returns the scan-time score, 100 before any scan
func (s *Scanner) ComplianceScore() float64 {
	if s.last == nil {
		return 100.0
	}
	return s.last.ComplianceScore()
}

// FilteredComplianceScore returns the score of the filtered view
func (s *Scanner) FilteredComplianceScore() float64 {
	if s.last == nil {
		return 100.0
	}
	return compliance.FromIssueCount(s.last.TotalFiles, len(s.FilteredIssues()))
}

// entry is one listed item. Symlinks are not followed: a link to a
// directory is a directory for the name check but is never descended into.
type entry struct {
	name string
	dir  bool
	link bool
}

// readDir lists dir sorted by name, dropping ignored entries
func (s *Scanner) readDir(root, dir string) ([]entry, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, err
	}

	entries := lo.Map(infos, func(info os.FileInfo, _ int) entry {
		return s.classify(dir, info)
	})
	if s.ignore == nil {
		return entries, nil
	}

	return lo.Filter(entries, func(e entry, _ int) bool {
		return !s.ignored(root, joinPath(dir, e.name), e.dir)
	}), nil
}

func (s *Scanner) classify(dir string, info os.FileInfo) entry {
	e := entry{name: info.Name(), dir: info.IsDir()}
	if info.Mode()&os.ModeSymlink == 0 {
		return e
	}

	e.link = true
	if target, err := s.fs.Stat(joinPath(dir, e.name)); err == nil {
		e.dir = target.IsDir()
	}
	return e
}

func (s *Scanner) ignored(root, path string, isDir bool) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if s.ignore.MatchesPath(rel) {
		return true
	}
	return isDir && s.ignore.MatchesPath(rel+"/")
}

func sortedKeys(m map[string]struct{}) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

func cloneResult(r *domain.ScanResult) *domain.ScanResult {
	c := *r
	c.Issues = make([]domain.Issue, len(r.Issues))
	for i, issue := range r.Issues {
		c.Issues[i] = cloneIssue(issue)
	}
	c.DiscoveredExtensions = append([]string{}, r.DiscoveredExtensions...)
	if r.Warnings != nil {
		c.Warnings = append([]domain.ScanWarning{}, r.Warnings...)
	}
	return &c
}

func cloneIssue(issue domain.Issue) domain.Issue {
	issue.Problems = append([]domain.Problem{}, issue.Problems...)
	return issue
}

type noopTask struct{}

func (noopTask) Increment(int)   {}
func (noopTask) Describe(string) {}
func (noopTask) Complete()       {}
