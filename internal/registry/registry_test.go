package registry

import (
	"reflect"
	"testing"
)

func TestNew_DefaultSet(t *testing.T) {
	r := New()
	expected := []string{".bat", ".cmd", ".dll", ".exe", ".vbs"}
	if got := r.Sorted(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"txt", ".txt"},
		{".TXT", ".txt"},
		{"  Pdf ", ".pdf"},
		{"tar.gz", ".tar.gz"},
		{"", ""},
		{"   ", ""},
		{".", "."},
		{" . ", "."},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	r := New()

	r.Add("txt")
	if _, ok := r.Snapshot()[".txt"]; !ok {
		t.Fatal("Expected .txt in snapshot after Add(\"txt\")")
	}

	r.Remove(".txt")
	if _, ok := r.Snapshot()[".txt"]; ok {
		t.Fatal("Expected .txt to be gone after Remove(\".txt\")")
	}

	r.Add("TXT")
	r.Remove("txt")
	if r.Contains(".txt") {
		t.Error("Remove should normalize like Add")
	}
}

func TestAdd_Idempotent(t *testing.T) {
	r := New()
	before := r.Len()
	r.Add("exe")
	r.Add(".EXE")
	if r.Len() != before {
		t.Errorf("Adding an existing extension changed the size from %d to %d", before, r.Len())
	}
}

func TestAdd_IgnoresBlank(t *testing.T) {
	r := NewWith()
	r.Add("")
	r.Add("  ")
	if r.Len() != 0 {
		t.Errorf("Blank extensions should be ignored, got %v", r.Sorted())
	}
}

func TestBareDot(t *testing.T) {
	r := NewWith()

	if !r.Toggle(".") {
		t.Fatal("Expected Toggle(\".\") to block the bare dot")
	}
	if !r.Contains(".") {
		t.Error("Expected the bare dot to be blocked")
	}
	if got := r.Sorted(); len(got) != 1 || got[0] != "." {
		t.Errorf("Expected [.], got %v", got)
	}

	if r.Toggle(".") {
		t.Error("Second Toggle(\".\") should unblock")
	}
	if r.Len() != 0 {
		t.Errorf("Expected empty registry, got %v", r.Sorted())
	}
}

func TestRemove_Absent(t *testing.T) {
	r := New()
	r.Remove(".nothing")
	r.Remove("")
	if r.Len() != len(DefaultBlocked) {
		t.Errorf("Removing absent extensions should not change the set, got %v", r.Sorted())
	}
}

func TestReset(t *testing.T) {
	r := New()
	r.Add("txt")
	r.Remove("exe")
	r.Replace(".pdf")

	r.Reset()

	expected := map[string]struct{}{
		".exe": {}, ".bat": {}, ".cmd": {}, ".dll": {}, ".vbs": {},
	}
	if got := r.Snapshot(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Reset should restore exactly the defaults, got %v", got)
	}
}

func TestReset_DoesNotShareDefaults(t *testing.T) {
	r := New()
	r.Remove(".exe")

	other := New()
	if !other.Contains(".exe") {
		t.Error("Mutating one registry must not affect the defaults of another")
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	r := New()
	snap := r.Snapshot()
	snap[".txt"] = struct{}{}
	delete(snap, ".exe")

	if r.Contains(".txt") || !r.Contains(".exe") {
		t.Error("Mutating the snapshot must not change the registry")
	}
}

func TestReplace(t *testing.T) {
	r := New()
	r.Replace("EXE", "")
	if got := r.Sorted(); !reflect.DeepEqual(got, []string{".exe"}) {
		t.Errorf("Expected [.exe], got %v", got)
	}
}

func TestToggle(t *testing.T) {
	r := NewWith(".exe")

	if r.Toggle("exe") {
		t.Error("Toggling a blocked extension should unblock it")
	}
	if r.Contains(".exe") {
		t.Error(".exe should be unblocked")
	}
	if !r.Toggle(".EXE") {
		t.Error("Toggling an allowed extension should block it")
	}
	if r.Toggle("") {
		t.Error("Toggling a blank extension should be a no-op")
	}
}

func TestContains_NilRegistry(t *testing.T) {
	var r *ExtensionRegistry
	if r.Contains(".exe") {
		t.Error("Nil registry should contain nothing")
	}
}

func TestInvariant_ElementsNormalized(t *testing.T) {
	r := NewWith("EXE", " bat", ".Cmd", "", ".")
	for ext := range r.Snapshot() {
		if ext == "" || ext[0] != '.' || ext != Normalize(ext) {
			t.Errorf("Element %q violates the registry invariant", ext)
		}
	}
}
