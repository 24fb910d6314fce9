package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/buttonctl/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := rootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "buttonctl version "+Version+" (build: "+BuildTime+")\n", out)
}

func TestInitCommand(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "index.html")

	out, _, err := execute(t, "init", "--document", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	out, _, err = execute(t, "init", "--document", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestApplyAndListCommands(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "index.html")
	logFile := filepath.Join(dir, "logs", "buttonctl.log")
	base := []string{"--document", doc, "--command-file", filepath.Join(dir, "command.txt"), "--log-file", logFile}

	_, _, err := execute(t, append([]string{"apply", "create", "button", "btnCyan", "#33FFCE"}, base...)...)
	require.NoError(t, err)

	_, stderr, err := execute(t, append([]string{"apply", "create", "button", "btnCyan", "red"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "button already exists")

	out, _, err := execute(t, append([]string{"list"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "btnCyan")
	assert.Contains(t, out, "#33FFCE")

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Button added")

	_, _, err = execute(t, append([]string{"apply", "delete", "button", "btnCyan"}, base...)...)
	require.NoError(t, err)

	out, _, err = execute(t, append([]string{"list"}, base...)...)
	require.NoError(t, err)
	assert.Equal(t, "No buttons\n", out)

	content, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, document.Skeleton, string(content))
}

func TestInvalidFlagValue(t *testing.T) {
	_, _, err := execute(t, "init", "--document", filepath.Join(t.TempDir(), "index.html"), "--log-level", "loud")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid configuration"))
}

func TestPrintButtons(t *testing.T) {
	var buf bytes.Buffer
	printButtons(&buf, []document.Button{{ID: "btnRed", Color: "red"}})
	assert.Equal(t, "btnRed         red\n", buf.String())
}

func TestFlagOverridesInvalidConfigValue(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "buttonctl.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: verbose\n"), 0644))
	doc := filepath.Join(dir, "index.html")

	_, _, err := execute(t, "init", "-c", configPath, "--document", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	out, _, err := execute(t, "init", "-c", configPath, "--document", doc, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
}
