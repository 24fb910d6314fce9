package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/buttonctl/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInitCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	want := filepath.Join(home, config.UserConfigDir, config.UserConfigFile)

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	cfg, err := config.LoadFromFile(want)
	require.NoError(t, err)
	assert.Equal(t, "./index.html", cfg.Document.Path)

	// Existing user config is left untouched.
	require.NoError(t, os.WriteFile(want, []byte("document:\n  path: mine.html\n"), 0644))
	_, _, err = execute(t, "config", "init")
	require.NoError(t, err)
	content, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "document:\n  path: mine.html\n", string(content))
}

func TestConfigValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("watch:\n  debounce: 100ms\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("log:\n  level: verbose\n"), 0644))

	out, _, err := execute(t, "config", "validate", good)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "is valid\n"))

	_, _, err = execute(t, "config", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")

	_, _, err = execute(t, "config", "validate", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
