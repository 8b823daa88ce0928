package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesNamedFieldsOnly(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/custom.db\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.SeedOnFirstRun, "absent keys keep their defaults")
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/x.db\nformat: json\nseed_on_first_run: false\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.SeedOnFirstRun)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := writeConfig(t, "db_path: [this is\nnot yaml: {")
	_, err := Load(path)
	assert.Error(t, err)
}
