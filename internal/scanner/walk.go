package scanner

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/rules"
)

// walk carries the state of one Scan call.
//
// Traversal is depth-first with entries sorted by name. For each directory
// the files are handled first, then the name checks of its immediate
// subdirectories, then each subdirectory is descended into in order.
// Symlinked directories get the name check only. The root itself is never
// checked as an item.
type walk struct {
	scanner *Scanner
	ctx     context.Context
	root    string
	log     *logrus.Entry

	discovered map[string]struct{}
	result     *domain.ScanResult
}

// checkpoint aborts the walk between directory visits once ctx is done
func (w *walk) checkpoint() error {
	if w.ctx == nil {
		return nil
	}
	if err := w.ctx.Err(); err != nil {
		return domain.NewScanCancelledError(w.root, err)
	}
	return nil
}

// discover is the first pass: it records extensions and counts files.
// Unlistable subtrees are skipped silently; the validation pass reports them.
func (w *walk) discover(dir string, entries []entry) (int, error) {
	if err := w.checkpoint(); err != nil {
		return 0, err
	}

	files := 0
	for _, e := range entries {
		if e.dir {
			continue
		}
		files++
		if ext := rules.Extension(e.name); ext != "" {
			if _, seen := w.discovered[ext]; !seen {
				w.log.WithField("extension", ext).Debug("Discovered extension")
			}
			w.discovered[ext] = struct{}{}
		}
	}

	for _, e := range entries {
		if !e.dir || e.link {
			continue
		}
		path := joinPath(dir, e.name)
		children, err := w.scanner.readDir(w.root, path)
		if err != nil {
			w.log.WithField("path", path).WithError(err).Debug("Skipping unreadable directory during discovery")
			continue
		}
		n, err := w.discover(path, children)
		if err != nil {
			return 0, err
		}
		files += n
	}

	return files, nil
}

// validate is the second pass: it evaluates every file and directory
func (w *walk) validate(dir string, entries []entry, task domain.TaskProgress) error {
	if err := w.checkpoint(); err != nil {
		return err
	}

	var subdirs []entry
	for _, e := range entries {
		if e.dir {
			subdirs = append(subdirs, e)
			continue
		}

		path := joinPath(dir, e.name)
		w.result.TotalFiles++
		if issue, ok := rules.NewIssue(path, false, w.scanner.registry); ok {
			w.addIssue(issue)
		} else {
			w.result.CompliantFiles++
		}
		task.Increment(1)
	}

	for _, d := range subdirs {
		if issue, ok := rules.NewIssue(joinPath(dir, d.name), true, w.scanner.registry); ok {
			w.addIssue(issue)
		}
	}

	for _, d := range subdirs {
		if d.link {
			continue
		}
		path := joinPath(dir, d.name)
		children, err := w.scanner.readDir(w.root, path)
		if err != nil {
			w.log.WithField("path", path).WithError(err).Warn("Skipping directory that cannot be listed")
			w.result.Warnings = append(w.result.Warnings, domain.ScanWarning{
				Path:    path,
				Message: err.Error(),
			})
			continue
		}
		if err := w.validate(path, children, task); err != nil {
			return err
		}
	}

	return nil
}

func (w *walk) addIssue(issue domain.Issue) {
	w.log.WithFields(logrus.Fields{
		"path":  issue.Path,
		"issue": issue.Summary(),
	}).Debug("Found issue")
	w.result.Issues = append(w.result.Issues, issue)
}

// joinPath appends name to dir without cleaning, so a root of "." yields
// "./name" and reported paths keep the prefix they were walked with.
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
