package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APPFLOW_TEST_FROM_ENV=dotenv\nAPPFLOW_TEST_PRESET=dotenv\n"), 0o600))

	t.Setenv("APPFLOW_TEST_PRESET", "process")
	t.Setenv("APPFLOW_TEST_FROM_ENV", "")
	require.NoError(t, os.Unsetenv("APPFLOW_TEST_FROM_ENV"))

	path, err := LoadEnvFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env"), path)
	assert.Equal(t, "dotenv", os.Getenv("APPFLOW_TEST_FROM_ENV"))
	assert.Equal(t, "process", os.Getenv("APPFLOW_TEST_PRESET"))
}

func TestLoadEnvFiles_LocalWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APPFLOW_TEST_LOCAL=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("APPFLOW_TEST_LOCAL=local\n"), 0o600))
	t.Setenv("APPFLOW_TEST_LOCAL", "")
	require.NoError(t, os.Unsetenv("APPFLOW_TEST_LOCAL"))

	path, err := LoadEnvFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env.local"), path)
	assert.Equal(t, "local", os.Getenv("APPFLOW_TEST_LOCAL"))
}

func TestLoadEnvFiles_None(t *testing.T) {
	path, err := LoadEnvFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestWorkflowFromEnv(t *testing.T) {
	env := map[string]string{
		"HOME":              "/home/runner",
		"GITHUB_WORKFLOW":   "CI",
		"GITHUB_RUN_ID":     "77",
		"GITHUB_SHA":        "deadbeef",
		"GITHUB_EVENT_PATH": "/tmp/event.json",
		"GITHUB_WORKSPACE":  "/src",
		"GITHUB_OUTPUT":     "/tmp/out",
	}
	wf := WorkflowFromEnv(func(k string) string { return env[k] })

	assert.Equal(t, Workflow{
		Home:       "/home/runner",
		Name:       "CI",
		RunID:      "77",
		SHA:        "deadbeef",
		EventPath:  "/tmp/event.json",
		Workspace:  "/src",
		OutputFile: "/tmp/out",
	}, wf)
}
