package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLoader(t *testing.T, home, work string) *Loader {
	t.Helper()
	l := NewLoader(nil)
	l.homeDir = func() (string, error) { return home, nil }
	l.workDir = func() (string, error) { return work, nil }
	return l
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoader_DefaultsOnly(t *testing.T) {
	l := newTestLoader(t, t.TempDir(), t.TempDir())

	cfg, err := l.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Document.Path != "./index.html" {
		t.Errorf("expected default document path, got %s", cfg.Document.Path)
	}
}

func TestLoader_LayerPrecedence(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "nested", "dir")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatalf("failed to create work dir: %v", err)
	}

	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
document:
  path: user.html
  reconcile_on_start: false
log:
  level: warn
`)
	writeConfig(t, filepath.Join(project, ProjectConfigFile), `
document:
  path: project.html
watch:
  debounce: 100ms
`)
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeConfig(t, explicit, `
log:
  level: debug
`)

	l := newTestLoader(t, home, work)
	cfg, err := l.Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Document.Path != "project.html" {
		t.Errorf("expected project config to win for document path, got %s", cfg.Document.Path)
	}
	if cfg.Reconcile() {
		t.Error("expected user config reconcile=false to survive project layer")
	}
	if cfg.DebounceDelay() != 100*time.Millisecond {
		t.Errorf("expected debounce 100ms, got %v", cfg.DebounceDelay())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected explicit config to win for log level, got %s", cfg.Log.Level)
	}
}

func TestLoader_ExplicitMissing(t *testing.T) {
	l := newTestLoader(t, t.TempDir(), t.TempDir())

	if _, err := l.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoader_LoadDefersValidation(t *testing.T) {
	work := t.TempDir()
	writeConfig(t, filepath.Join(work, ProjectConfigFile), `
log:
  level: loud
`)

	l := newTestLoader(t, t.TempDir(), work)
	cfg, err := l.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v, want layering without validation", err)
	}
	if cfg.Log.Level != "loud" {
		t.Errorf("expected merged log level loud, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}

	// A later override repairs the value before validation.
	cfg.Log.Level = "debug"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v after override", err)
	}
}

func TestLoader_EnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := newTestLoader(t, home, t.TempDir())

	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}

	path := filepath.Join(home, UserConfigDir, UserConfigFile)
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to load created config: %v", err)
	}
	if loaded.Command.Path != "./command.txt" {
		t.Errorf("expected default command path, got %s", loaded.Command.Path)
	}

	// Second call leaves the file alone
	writeConfig(t, path, "document:\n  path: kept.html\n")
	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	loaded, err = LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Document.Path != "kept.html" {
		t.Errorf("expected existing config preserved, got %s", loaded.Document.Path)
	}
}

func TestLoader_LaterLayerResetsDebounce(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
watch:
  debounce: 300ms
`)
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeConfig(t, explicit, `
watch:
  debounce: 0s
`)

	cfg, err := newTestLoader(t, home, t.TempDir()).Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DebounceDelay() != 0 {
		t.Errorf("expected explicit 0s to override user 300ms, got %v", cfg.DebounceDelay())
	}
}
