package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
log_level = "debug"
wrap_width = 0
style_dirs = ["styles", "/usr/share/bst"]
output = "out/refs.bbl"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.WrapWidth == nil || *cfg.WrapWidth != 0 {
		t.Errorf("WrapWidth = %v, want 0", cfg.WrapWidth)
	}
	wantDirs := []string{filepath.Join(dir, "styles"), "/usr/share/bst"}
	if got := cfg.StyleDirPaths(); !reflect.DeepEqual(got, wantDirs) {
		t.Errorf("StyleDirPaths() = %v, want %v", got, wantDirs)
	}
	if got := cfg.OutputPath(); got != filepath.Join(dir, "out", "refs.bbl") {
		t.Errorf("OutputPath() = %q", got)
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), "# nothing\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WrapWidth != nil {
		t.Errorf("WrapWidth = %d, want unset", *cfg.WrapWidth)
	}
	if cfg.OutputPath() != "" || len(cfg.StyleDirPaths()) != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"unknown key", "wrap = 10\n", "unknown keys: wrap"},
		{"negative width", "wrap_width = -1\n", "wrap_width"},
		{"wrong type", "wrap_width = \"wide\"\n", "parse error"},
		{"broken syntax", "log_level = \n", "parse error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantMsg)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() expected an error for a missing file")
	}
}

func TestFind(t *testing.T) {
	if got := Find("custom.toml"); got != "custom.toml" {
		t.Errorf("Find(explicit) = %q", got)
	}

	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if got := Find(""); got != "" {
		t.Errorf("Find(\"\") = %q, want empty without a config file", got)
	}
	writeConfig(t, dir, "")
	if got := Find(""); got != FileName {
		t.Errorf("Find(\"\") = %q, want %q", got, FileName)
	}
}
