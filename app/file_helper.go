package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ludo-technologies/migscan/domain"
)

// FileHelper provides file operation utilities for reports
type FileHelper struct {
	fs afero.Fs
}

// NewFileHelper creates a FileHelper over the OS filesystem
func NewFileHelper() *FileHelper {
	return NewFileHelperWithFs(afero.NewOsFs())
}

// NewFileHelperWithFs creates a FileHelper over fs
func NewFileHelperWithFs(fs afero.Fs) *FileHelper {
	return &FileHelper{fs: fs}
}

// Fs returns the underlying filesystem
func (h *FileHelper) Fs() afero.Fs {
	return h.fs
}

// ResolveRoot cleans the scan root. Blank input is rejected.
func (h *FileHelper) ResolveRoot(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", domain.NewInvalidInputError("no directory specified", nil)
	}
	return filepath.Clean(path), nil
}

// FileExists reports whether path exists and is a regular file
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := h.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// WriteReport creates path and hands it to write. The parent directory must
// already exist. Any failure is an OUTPUT_ERROR.
func (h *FileHelper) WriteReport(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if info, err := h.fs.Stat(dir); err != nil || !info.IsDir() {
			return domain.NewOutputError("directory does not exist: "+dir, err)
		}
	}

	f, err := h.fs.Create(path)
	if err != nil {
		return domain.NewOutputError("failed to create "+path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return domain.NewOutputError("failed to write "+path, err)
	}
	if err := f.Close(); err != nil {
		return domain.NewOutputError("failed to close "+path, err)
	}
	return nil
}
