package scanner

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/compliance"
	"github.com/ludo-technologies/migscan/internal/registry"
	"github.com/ludo-technologies/migscan/internal/rules"
	"github.com/ludo-technologies/migscan/internal/testutil"
)

const root = "/data"

func newMemScanner(t *testing.T, entries ...string) (*Scanner, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	testutil.BuildTree(t, fs, root, entries...)
	return New(WithFs(fs)), fs
}

func issuePaths(issues []domain.Issue) []string {
	paths := make([]string, 0, len(issues))
	for _, issue := range issues {
		paths = append(paths, issue.Path)
	}
	return paths
}

func TestScan_BlockedExecutable(t *testing.T) {
	s, _ := newMemScanner(t, "report.exe")

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 1, result.TotalFiles)
	testutil.AssertEqual(t, 0, result.CompliantFiles)
	if len(result.Issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(result.Issues))
	}
	testutil.AssertEqual(t, "Unsupported file type (.exe)", result.Issues[0].Summary())
	testutil.AssertEqual(t, 0.0, s.ComplianceScore())
	testutil.AssertEqual(t, 0.0, result.ComplianceScore())
}

func TestScan_CompliantFileNothingBlocked(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.BuildTree(t, fs, root, "ok.txt")
	s := New(WithFs(fs), WithRegistry(registry.NewWith()))

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 1, result.TotalFiles)
	testutil.AssertEqual(t, 1, result.CompliantFiles)
	testutil.AssertEqual(t, 0, len(result.Issues))
	testutil.AssertEqual(t, 100.0, s.ComplianceScore())
}

func TestScan_InvalidCharacters(t *testing.T) {
	s, _ := newMemScanner(t, "a#b.txt")

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	if len(result.Issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(result.Issues))
	}
	issue := result.Issues[0]
	testutil.AssertEqual(t, "a#b.txt", issue.Name)
	testutil.AssertEqual(t, "Contains invalid characters", issue.Summary())
	testutil.AssertEqual(t, "Rename to: a_b.txt", issue.SuggestedFix)
}

func TestScan_LongPath(t *testing.T) {
	name := testutil.NameOfPathLength(t, root, 300, ".txt")
	s, _ := newMemScanner(t, name)

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	if len(result.Issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(result.Issues))
	}
	issue := result.Issues[0]
	testutil.AssertEqual(t, 300, rules.PathLength(issue.Path))
	testutil.AssertEqual(t, "Path exceeds 260 characters (by 40 characters)", issue.Summary())
	testutil.AssertEqual(t, 40, issue.Problems[0].ExcessChars)
}

func TestScan_EmptyDirectory(t *testing.T) {
	s, _ := newMemScanner(t)

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 0, result.TotalFiles)
	testutil.AssertEqual(t, 0, len(result.Issues))
	testutil.AssertEqual(t, 100.0, s.ComplianceScore())
	testutil.AssertEqual(t, 0, len(result.DiscoveredExtensions))
}

func TestScan_DirectoryNotFound(t *testing.T) {
	s, _ := newMemScanner(t, "file.txt")

	_, err := s.Scan(context.Background(), "/missing")
	testutil.AssertError(t, err)
	if !domain.HasCode(err, domain.ErrCodeDirectoryNotFound) {
		t.Errorf("Expected %s, got %v", domain.ErrCodeDirectoryNotFound, err)
	}

	_, err = s.Scan(context.Background(), filepath.Join(root, "file.txt"))
	if !domain.HasCode(err, domain.ErrCodeDirectoryNotFound) {
		t.Errorf("Scanning a file should fail with %s, got %v", domain.ErrCodeDirectoryNotFound, err)
	}

	if _, ok := s.CurrentDirectory(); ok {
		t.Error("A failed scan must not record a current directory")
	}
}

func TestScan_RootPermissionDenied(t *testing.T) {
	mem := afero.NewMemMapFs()
	testutil.BuildTree(t, mem, root, "a.txt")
	s := New(WithFs(testutil.NewDenyFs(mem, root)))

	_, err := s.Scan(context.Background(), root)
	if !domain.HasCode(err, domain.ErrCodePermissionDenied) {
		t.Errorf("Expected %s, got %v", domain.ErrCodePermissionDenied, err)
	}
}

func TestScan_SubtreePermissionDeniedIsSkipped(t *testing.T) {
	mem := afero.NewMemMapFs()
	testutil.BuildTree(t, mem, root,
		"a.txt",
		"locked#/secret.exe",
		"open/b.exe",
	)
	locked := filepath.Join(root, "locked#")
	s := New(WithFs(testutil.NewDenyFs(mem, locked)))

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 2, result.TotalFiles)
	if len(result.Warnings) != 1 || result.Warnings[0].Path != locked {
		t.Fatalf("Expected one warning for %s, got %v", locked, result.Warnings)
	}

	expected := []string{
		locked,
		filepath.Join(root, "open", "b.exe"),
	}
	if got := issuePaths(result.Issues); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected issues %v, got %v", expected, got)
	}
	for _, ext := range result.DiscoveredExtensions {
		if ext == ".exe" {
			return
		}
	}
	t.Error("Extensions of readable siblings should still be discovered")
}

func TestScan_TraversalOrder(t *testing.T) {
	s, _ := newMemScanner(t,
		"b.exe",
		"a.exe",
		"z#dir/c.exe",
		"m#dir/d.exe",
		"m#dir/sub#/e.exe",
	)

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	expected := []string{
		"/data/a.exe",
		"/data/b.exe",
		"/data/m#dir",
		"/data/z#dir",
		"/data/m#dir/d.exe",
		"/data/m#dir/sub#",
		"/data/m#dir/sub#/e.exe",
		"/data/z#dir/c.exe",
	}
	for i := range expected {
		expected[i] = filepath.FromSlash(expected[i])
	}
	if got := issuePaths(result.Issues); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected order\n%v\ngot\n%v", expected, got)
	}
}

func TestScan_DirectoriesNotCountedAndNoExtensionCheck(t *testing.T) {
	s, _ := newMemScanner(t,
		"setup.exe/",
		"tools.d/readme.txt",
	)

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 1, result.TotalFiles)
	testutil.AssertEqual(t, 1, result.CompliantFiles)
	testutil.AssertEqual(t, 0, len(result.Issues))
}

func TestScan_DiscoveredExtensions(t *testing.T) {
	s, _ := newMemScanner(t,
		"a.TXT",
		"b.exe",
		"archive.tar.gz",
		"README",
		"dir.d/c.pdf",
	)

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	expected := []string{".exe", ".gz", ".pdf", ".txt"}
	if !reflect.DeepEqual(result.DiscoveredExtensions, expected) {
		t.Errorf("Expected %v, got %v", expected, result.DiscoveredExtensions)
	}
	if !reflect.DeepEqual(s.DiscoveredExtensions(), expected) {
		t.Errorf("Scanner should expose the same extensions, got %v", s.DiscoveredExtensions())
	}
}

func TestScan_DiscoveryIndependentOfBlocklist(t *testing.T) {
	entries := []string{"a.exe", "b.txt", "c.bat"}

	fs := afero.NewMemMapFs()
	testutil.BuildTree(t, fs, root, entries...)

	blocked := New(WithFs(fs))
	open := New(WithFs(fs), WithRegistry(registry.NewWith()))

	r1, err := blocked.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)
	r2, err := open.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	if !reflect.DeepEqual(r1.DiscoveredExtensions, r2.DiscoveredExtensions) {
		t.Errorf("Discovery depends on the blocklist: %v vs %v", r1.DiscoveredExtensions, r2.DiscoveredExtensions)
	}
}

func TestScan_Idempotent(t *testing.T) {
	s, _ := newMemScanner(t,
		"a#.exe",
		"ok.txt",
		"dir|x/b.bat",
		testutil.NameOfPathLength(t, root, 270, ".doc"),
	)

	r1, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)
	r2, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	if !reflect.DeepEqual(r1.Issues, r2.Issues) {
		t.Error("Issues differ between identical scans")
	}
	testutil.AssertEqual(t, r1.TotalFiles, r2.TotalFiles)
	testutil.AssertEqual(t, r1.CompliantFiles, r2.CompliantFiles)
	testutil.AssertEqual(t, r1.ComplianceScore(), r2.ComplianceScore())
	if !reflect.DeepEqual(r1.DiscoveredExtensions, r2.DiscoveredExtensions) {
		t.Error("Discovered extensions differ between identical scans")
	}
}

func TestScan_ReplacesPreviousResult(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.BuildTree(t, fs, "/one", "a.exe", "b.exe")
	testutil.BuildTree(t, fs, "/two", "c.txt")
	s := New(WithFs(fs))

	_, err := s.Scan(context.Background(), "/one")
	testutil.AssertNoError(t, err)
	_, err = s.Scan(context.Background(), "/two")
	testutil.AssertNoError(t, err)

	result := s.Result()
	testutil.AssertEqual(t, 1, result.TotalFiles)
	testutil.AssertEqual(t, 0, len(result.Issues))
	if !reflect.DeepEqual(s.DiscoveredExtensions(), []string{".txt"}) {
		t.Errorf("Expected only .txt, got %v", s.DiscoveredExtensions())
	}
	dir, ok := s.CurrentDirectory()
	if !ok || dir != "/two" {
		t.Errorf("Expected current directory /two, got %q", dir)
	}
}

func TestScan_ResultIsCallerOwned(t *testing.T) {
	s, _ := newMemScanner(t, "a.exe")

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	result.Issues[0].Problems[0].Extension = ".changed"
	result.Issues = nil
	result.TotalFiles = 99

	again := s.Result()
	testutil.AssertEqual(t, 1, again.TotalFiles)
	testutil.AssertEqual(t, ".exe", again.Issues[0].Problems[0].Extension)
}

func TestFilteredIssues_CallerOwned(t *testing.T) {
	s, _ := newMemScanner(t, "a.exe")

	_, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	filtered := s.FilteredIssues()
	filtered[0].Problems[0].Extension = ".changed"

	testutil.AssertEqual(t, ".exe", s.FilteredIssues()[0].Problems[0].Extension)
	testutil.AssertEqual(t, ".exe", s.Result().Issues[0].Problems[0].Extension)
}

func TestFilteredIssues_LiveAgainstRegistry(t *testing.T) {
	s, _ := newMemScanner(t,
		"a.exe",
		"b.bat",
		"c#.txt",
		"d#.exe/",
		"ok.txt",
	)

	_, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	s.Registry().Replace(".exe")
	expected := []string{filepath.Join(root, "a.exe")}
	if got := issuePaths(s.FilteredIssues()); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	s.Registry().Replace(".txt")
	expected = []string{filepath.Join(root, "c#.txt")}
	if got := issuePaths(s.FilteredIssues()); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v after changing the blocklist, got %v", expected, got)
	}

	s.Registry().Replace()
	testutil.AssertEqual(t, 0, len(s.FilteredIssues()))

	// The raw issue list is untouched by registry changes
	testutil.AssertEqual(t, 4, len(s.Result().Issues))
}

func TestFilteredComplianceScore(t *testing.T) {
	s, _ := newMemScanner(t, "a.exe", "b.bat", "c.txt", "d.txt")

	_, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 50.0, s.ComplianceScore())

	s.Registry().Replace(".exe")
	testutil.AssertEqual(t, 75.0, s.FilteredComplianceScore())
	testutil.AssertEqual(t, compliance.FromIssueCount(4, len(s.FilteredIssues())), s.FilteredComplianceScore())

	s.Registry().Reset()
	testutil.AssertEqual(t, s.ComplianceScore(), s.FilteredComplianceScore())
}

func TestScanner_BeforeAnyScan(t *testing.T) {
	s := New(WithFs(afero.NewMemMapFs()))

	testutil.AssertEqual(t, 100.0, s.ComplianceScore())
	testutil.AssertEqual(t, 100.0, s.FilteredComplianceScore())
	testutil.AssertEqual(t, 0, len(s.FilteredIssues()))
	testutil.AssertEqual(t, 0, len(s.DiscoveredExtensions()))
	if s.Result() != nil {
		t.Error("Expected nil result before any scan")
	}
}

func TestScan_CancelledKeepsPreviousResult(t *testing.T) {
	s, _ := newMemScanner(t, "a.exe", "sub/b.txt")

	_, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Scan(ctx, root)
	if !domain.HasCode(err, domain.ErrCodeScanCancelled) {
		t.Fatalf("Expected %s, got %v", domain.ErrCodeScanCancelled, err)
	}

	testutil.AssertEqual(t, 2, s.Result().TotalFiles)
}

func TestScan_IgnorePatterns(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.BuildTree(t, fs, root,
		"keep.exe",
		"debug.log",
		"build/out.exe",
		"src/app.bat",
	)
	s := New(WithFs(fs), WithIgnorePatterns("*.log", "build/"))

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 2, result.TotalFiles)
	expectedExts := []string{".bat", ".exe"}
	if !reflect.DeepEqual(result.DiscoveredExtensions, expectedExts) {
		t.Errorf("Expected %v, got %v", expectedExts, result.DiscoveredExtensions)
	}
	for _, issue := range result.Issues {
		if issue.Path == filepath.Join(root, "build", "out.exe") {
			t.Error("Ignored directory should not be scanned")
		}
	}
}

type countingProgress struct {
	total      int
	increments int
	completed  bool
}

func (p *countingProgress) StartTask(_ string, total int) domain.TaskProgress {
	p.total = total
	return p
}
func (p *countingProgress) IsInteractive() bool { return false }
func (p *countingProgress) Close()              {}
func (p *countingProgress) Increment(n int)     { p.increments += n }
func (p *countingProgress) Describe(string)     {}
func (p *countingProgress) Complete()           { p.completed = true }

func TestScan_ReportsProgress(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.BuildTree(t, fs, root, "a.txt", "b.txt", "sub/c.txt", "empty/")
	pm := &countingProgress{}
	s := New(WithFs(fs), WithProgress(pm))

	_, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 3, pm.total)
	testutil.AssertEqual(t, 3, pm.increments)
	testutil.AssertTrue(t, pm.completed, "Progress task should be completed")
}

func TestScan_RealFilesystem(t *testing.T) {
	dir := testutil.TempTree(t, "ok.txt", "run.bat", "nested/a&b.docx")
	s := New()

	result, err := s.Scan(context.Background(), dir)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 3, result.TotalFiles)
	testutil.AssertEqual(t, 1, result.CompliantFiles)
	expected := []string{
		filepath.Join(dir, "run.bat"),
		filepath.Join(dir, "nested", "a&b.docx"),
	}
	if got := issuePaths(result.Issues); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestScan_BareDotExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.BuildTree(t, fs, root, "a.", "b.txt")
	reg := registry.NewWith()
	s := New(WithFs(fs), WithRegistry(reg))

	result, err := s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 0, len(result.Issues))
	if !reflect.DeepEqual(result.DiscoveredExtensions, []string{".", ".txt"}) {
		t.Errorf("Expected [. .txt], got %v", result.DiscoveredExtensions)
	}

	if !reg.Toggle(".") {
		t.Fatal("Expected the bare dot to become blocked")
	}
	filtered := s.FilteredIssues()
	if len(filtered) != 0 {
		t.Errorf("Filtered view should not change before a rescan flags the file, got %v", issuePaths(filtered))
	}

	result, err = s.Scan(context.Background(), root)
	testutil.AssertNoError(t, err)
	if len(result.Issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(result.Issues))
	}
	testutil.AssertEqual(t, filepath.Join(root, "a."), result.Issues[0].Path)
	testutil.AssertEqual(t, "Unsupported file type (.)", result.Issues[0].Summary())
	testutil.AssertEqual(t, 1, len(s.FilteredIssues()))
}

func TestScan_SymlinksAreNotFollowed(t *testing.T) {
	dir := testutil.TempTree(t, "target.txt", "real/inner.exe")
	if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link#.exe")); err != nil {
		t.Skipf("Symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "target.txt"), filepath.Join(dir, "alias.exe")); err != nil {
		t.Skipf("Symlinks not supported: %v", err)
	}

	s := New()
	result, err := s.Scan(context.Background(), dir)
	testutil.AssertNoError(t, err)

	// alias.exe, target.txt and real/inner.exe; the directory link is not a file
	testutil.AssertEqual(t, 3, result.TotalFiles)
	testutil.AssertEqual(t, 1, result.CompliantFiles)

	expected := []string{
		filepath.Join(dir, "alias.exe"),
		filepath.Join(dir, "link#.exe"),
		filepath.Join(dir, "real", "inner.exe"),
	}
	if got := issuePaths(result.Issues); !reflect.DeepEqual(got, expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}

	link := result.Issues[1]
	testutil.AssertEqual(t, domain.ItemDirectory, link.Kind)
	testutil.AssertEqual(t, "Contains invalid characters", link.Summary())
	if !reflect.DeepEqual(result.DiscoveredExtensions, []string{".exe", ".txt"}) {
		t.Errorf("Expected [.exe .txt], got %v", result.DiscoveredExtensions)
	}
}

func TestScan_KeepsRootPrefix(t *testing.T) {
	s, _ := newMemScanner(t, "a.exe", "sub/b.exe")

	result, err := s.Scan(context.Background(), root+"/")
	testutil.AssertNoError(t, err)

	sep := string(filepath.Separator)
	expected := []string{root + "/a.exe", root + "/" + "sub" + sep + "b.exe"}
	if got := issuePaths(result.Issues); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestJoinPath(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		dir, name, expected string
	}{
		{".", "a", "." + sep + "a"},
		{"/data", "a", "/data" + sep + "a"},
		{sep, "a", sep + "a"},
		{"." + sep + "sub", "b", "." + sep + "sub" + sep + "b"},
	}

	for _, tt := range tests {
		if got := joinPath(tt.dir, tt.name); got != tt.expected {
			t.Errorf("joinPath(%q, %q) = %q, expected %q", tt.dir, tt.name, got, tt.expected)
		}
	}
}
