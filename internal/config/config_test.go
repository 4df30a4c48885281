package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qlang.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Prompt != "(qlang) >" {
		t.Errorf("Prompt = %q", cfg.Prompt)
	}
	if cfg.HistoryFile != filepath.Join(home, ".qlang_history") {
		t.Errorf("HistoryFile = %q", cfg.HistoryFile)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Path != filepath.Join(home, ".qlang", "journal.db") {
		t.Errorf("Journal = %+v", cfg.Journal)
	}
	if cfg.MaxCallDepth != 10000 || cfg.Level() != slog.LevelInfo {
		t.Errorf("MaxCallDepth = %d, Level = %v", cfg.MaxCallDepth, cfg.Level())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `prompt: "> "
log_level: debug
journal:
  enabled: false
  path: /tmp/j.db
max_call_depth: 500
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Prompt != "> " || cfg.Level() != slog.LevelDebug || cfg.MaxCallDepth != 500 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Journal.Enabled || cfg.Journal.Path != "/tmp/j.db" {
		t.Errorf("Journal = %+v", cfg.Journal)
	}
	if !strings.HasSuffix(cfg.HistoryFile, ".qlang_history") {
		t.Errorf("HistoryFile kept no default: %q", cfg.HistoryFile)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load(empty) error: %v", err)
	}
	if cfg.Prompt != Default().Prompt {
		t.Errorf("Prompt = %q", cfg.Prompt)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "colour: red\n", "field colour not found"},
		{"bad level", "log_level: loud\n", `unknown log level "loud"`},
		{"bad depth", "max_call_depth: 0\n", "max_call_depth must be positive"},
		{"bad yaml", "prompt: [\n", "config: parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load(missing file) should fail")
	}
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvVar, "")

	if got := Resolve(""); got != "" {
		t.Errorf("Resolve() without any file = %q, want empty", got)
	}

	homeConfig := filepath.Join(home, ".qlang.yaml")
	if err := os.WriteFile(homeConfig, []byte("prompt: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Resolve(""); got != homeConfig {
		t.Errorf("Resolve() = %q, want %q", got, homeConfig)
	}

	t.Setenv(EnvVar, "/etc/qlang.yaml")
	if got := Resolve(""); got != "/etc/qlang.yaml" {
		t.Errorf("Resolve() with %s = %q", EnvVar, got)
	}
	if got := Resolve("custom.yaml"); got != "custom.yaml" {
		t.Errorf("Resolve(explicit) = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in, expected string
	}{
		{"~", home},
		{"~/x/y", filepath.Join(home, "x", "y")},
		{"/abs", "/abs"},
		{"rel/~", "rel/~"},
		{"~other", "~other"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil || got != tt.expected {
			t.Errorf("ExpandHome(%q) = %q, %v, want %q", tt.in, got, err, tt.expected)
		}
	}
}
