package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestFindFileCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()

	testFiles := []string{
		"Plain.bst",
		"ALPHA.BST",
		"unsrt.bst",
	}
	for _, filename := range testFiles {
		path := filepath.Join(tmpDir, filename)
		if err := os.WriteFile(path, []byte("READ"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "abbrv.bst"), 0755); err != nil {
		t.Fatalf("Failed to create test dir: %v", err)
	}

	tests := []struct {
		name          string
		searchName    string
		shouldFind    bool
		expectedMatch string
	}{
		{"exact match", "Plain.bst", true, "Plain.bst"},
		{"lowercase search for mixed case file", "plain.bst", true, "Plain.bst"},
		{"mixed case search for uppercase file", "Alpha.bst", true, "ALPHA.BST"},
		{"uppercase search for lowercase file", "UNSRT.BST", true, "unsrt.bst"},
		{"directories are skipped", "abbrv.bst", false, ""},
		{"file not found", "ieeetr.bst", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := FindFileCaseInsensitive(tmpDir, tt.searchName)
			if !tt.shouldFind {
				if err == nil {
					t.Errorf("FindFileCaseInsensitive(%q) = %q, want error", tt.searchName, path)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindFileCaseInsensitive(%q) returned error: %v", tt.searchName, err)
			}
			if got := filepath.Base(path); got != tt.expectedMatch {
				t.Errorf("FindFileCaseInsensitive(%q) = %q, want %q", tt.searchName, got, tt.expectedMatch)
			}
		})
	}
}

func TestFindFileCaseInsensitive_MissingDir(t *testing.T) {
	if _, err := FindFileCaseInsensitive(filepath.Join(t.TempDir(), "nope"), "plain.bst"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestEmbedFS_FindFile(t *testing.T) {
	fsys := fstest.MapFS{
		"styles/Plain.bst": &fstest.MapFile{Data: []byte("READ")},
	}
	e := NewEmbedFS(fsys, "styles")
	if !e.IsEmbedded() {
		t.Error("EmbedFS.IsEmbedded() = false, want true")
	}

	path, err := e.FindFile("PLAIN.BST")
	if err != nil {
		t.Fatalf("FindFile returned error: %v", err)
	}
	if path != "styles/Plain.bst" {
		t.Errorf("FindFile(%q) = %q, want %q", "PLAIN.BST", path, "styles/Plain.bst")
	}
	data, err := e.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if string(data) != "READ" {
		t.Errorf("ReadFile(%q) = %q, want %q", path, data, "READ")
	}
}

func TestRealFS_FindFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "alpha.bst"), []byte("SORT"), 0644); err != nil {
		t.Fatal(err)
	}
	r := NewRealFS(tmpDir)
	if r.IsEmbedded() {
		t.Error("RealFS.IsEmbedded() = true, want false")
	}
	for _, name := range []string{"alpha.bst", "ALPHA.bst"} {
		path, err := r.FindFile(name)
		if err != nil {
			t.Fatalf("FindFile(%q) returned error: %v", name, err)
		}
		data, err := r.ReadFile(path)
		if err != nil || string(data) != "SORT" {
			t.Errorf("ReadFile(%q) = %q, %v", path, data, err)
		}
	}
}
