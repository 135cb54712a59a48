package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "rlm-config.json"), dir)
	require.NoError(t, err)
	assert.Equal(t, Default().Endpoint, cfg.Endpoint)
	assert.False(t, cfg.Enabled)
}

func TestLoad_ReadsFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rlm-config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"enabled": true, "model": "llama3"}`), 0o644))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "llama3", cfg.Model)
}

func TestLoad_EnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rlm-config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"enabled": false, "endpoint": "file-endpoint"}`), 0o644))

	t.Setenv("TRAILER_MEMORY_ENABLED", "true")
	t.Setenv("TRAILER_MEMORY_LLM_ENDPOINT", "env-endpoint")

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "env-endpoint", cfg.Endpoint)
}

func TestLoad_DotEnvSeedsProcessEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRAILER_MEMORY_LLM_MODEL=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TRAILER_MEMORY_LLM_MODEL") })

	cfg, err := Load(filepath.Join(dir, "rlm-config.json"), dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Model)
}

func TestSave_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "rlm-config.json")
	cfg := Default()
	cfg.Model = "phi3"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "phi3", loaded.Model)
}

func TestLoad_MalformedJSONFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rlm-config.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path, dir)
	assert.Error(t, err)
}
