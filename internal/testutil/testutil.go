// Package testutil provides helper functions for testing migscan components
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// BuildTree creates the given entries under root in fs. Entries ending in
// a slash are created as directories, everything else as small files.
func BuildTree(t *testing.T, fs afero.Fs, root string, entries ...string) {
	t.Helper()
	if err := fs.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("Failed to create root %s: %v", root, err)
	}

	for _, entry := range entries {
		path := filepath.Join(root, filepath.FromSlash(entry))
		if strings.HasSuffix(entry, "/") {
			if err := fs.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", path, err)
			}
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", path, err)
		}
		if err := afero.WriteFile(fs, path, []byte("test"), 0o644); err != nil {
			t.Fatalf("Failed to create file %s: %v", path, err)
		}
	}
}

// TempTree creates the entries in a fresh temporary directory on disk and
// returns its path.
func TempTree(t *testing.T, entries ...string) string {
	t.Helper()
	root := t.TempDir()
	BuildTree(t, afero.NewOsFs(), root, entries...)
	return root
}

// NameOfPathLength returns a file name that makes filepath.Join(dir, name)
// exactly length characters long. ext is appended to the name.
func NameOfPathLength(t *testing.T, dir string, length int, ext string) string {
	t.Helper()
	n := length - len(dir) - 1 - len(ext)
	if n < 1 {
		t.Fatalf("Cannot build a path of length %d under %s", length, dir)
	}
	return strings.Repeat("a", n) + ext
}

// DenyFs wraps a filesystem and refuses to open the listed paths, the way a
// directory without read permission behaves.
type DenyFs struct {
	afero.Fs
	Denied map[string]bool
}

// NewDenyFs returns a DenyFs over fs that denies every path in denied
func NewDenyFs(fs afero.Fs, denied ...string) *DenyFs {
	d := &DenyFs{Fs: fs, Denied: make(map[string]bool)}
	for _, p := range denied {
		d.Denied[filepath.Clean(p)] = true
	}
	return d
}

// Open implements afero.Fs
func (d *DenyFs) Open(name string) (afero.File, error) {
	if d.Denied[filepath.Clean(name)] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return d.Fs.Open(name)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}
