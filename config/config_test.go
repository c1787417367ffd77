package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestDefaultStages(t *testing.T) {
	cfg := Default()
	require.Len(t, cfg.Lint.Stages, 2)
	assert.False(t, cfg.Lint.Stages[0].Advisory)
	assert.True(t, cfg.Lint.Stages[1].Advisory)
	assert.Contains(t, cfg.Lint.Stages[0].Command, "--select=E9,F63,F7,F82")
	assert.Contains(t, cfg.Lint.Stages[1].Command, "--max-line-length=127")
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ioflow.yaml")
	data := []byte(`
main_branch: trunk
docs:
  wiki_url: https://example.com/wiki.git
test:
  command: ["pytest", "-x", "tests/"]
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "trunk", cfg.MainBranch)
	assert.Equal(t, "https://example.com/wiki.git", cfg.Docs.WikiURL)
	assert.Equal(t, []string{"pytest", "-x", "tests/"}, cfg.Test.Command)

	// Untouched sections keep their defaults.
	assert.Equal(t, "iolib.", cfg.Docs.Prefix)
	assert.Len(t, cfg.Lint.Stages, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ioflow.yaml")
	data := []byte(`
docs:
  author_email: not-an-email
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IOFLOW_MAIN_BRANCH", "develop")
	t.Setenv("IOFLOW_WIKI_URL", "https://example.com/wiki.git")
	t.Setenv("IOFLOW_WEBHOOK_URL", "https://hooks.example.com/ioflow")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "develop", cfg.MainBranch)
	assert.Equal(t, "https://example.com/wiki.git", cfg.Docs.WikiURL)
	assert.Equal(t, "https://hooks.example.com/ioflow", cfg.Notify.WebhookURL)
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ioflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("main_branch: trunk\n"), 0o644))
	t.Setenv("IOFLOW_MAIN_BRANCH", "develop")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "develop", cfg.MainBranch)
}
