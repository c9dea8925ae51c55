package service

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ludo-technologies/migscan/domain"
)

// ExportCSV writes issues to a CSV file at path on the OS filesystem
func ExportCSV(path string, issues []domain.Issue) error {
	return ExportCSVFs(afero.NewOsFs(), path, issues)
}

// ExportCSVFs writes issues to a CSV file at path on fs. Failures are
// OUTPUT_ERROR; a partially written file is removed.
func ExportCSVFs(fs afero.Fs, path string, issues []domain.Issue) error {
	if path == "" {
		return domain.NewInvalidInputError("export path is empty", nil)
	}

	if dir := filepath.Dir(path); dir != "." {
		if info, err := fs.Stat(dir); err != nil || !info.IsDir() {
			return domain.NewOutputError("export directory does not exist: "+dir, err)
		}
	}

	f, err := fs.Create(path)
	if err != nil {
		return domain.NewOutputError("failed to create "+path, err)
	}

	if err := WriteCSV(f, issues); err != nil {
		_ = f.Close()
		_ = fs.Remove(path)
		return domain.NewOutputError("failed to write "+path, err)
	}

	if err := f.Close(); err != nil {
		return domain.NewOutputError("failed to close "+path, err)
	}
	return nil
}
