package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangarview/internal/domain"
)

func TestSaveAndLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	svc := NewConfigService()

	cfg := &Config{
		Version:           1,
		ServerURL:         "http://example.test:8700",
		PageSize:          50,
		RequestTimeoutSec: 5,
		DefaultSort:       "weight",
		UISettings: UISettings{
			ShowTabCounts:  true,
			AutosaveOnExit: false,
		},
	}

	require.NoError(t, svc.SaveToPath(cfg, path))

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 5*time.Second, loaded.RequestTimeout())
	assert.Equal(t, domain.SortByWeight, loaded.SortOrder())
}

func TestLoadFromPathMissingFile(t *testing.T) {
	svc := NewConfigService()
	_, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFromPathFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	// a hand-edited file carrying only the server URL
	require.NoError(t, os.WriteFile(path, []byte("server_url = \"http://somewhere:9000\"\n"), 0644))

	svc := NewConfigService()
	cfg, err := svc.LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "http://somewhere:9000", cfg.ServerURL)
	assert.Equal(t, 30, cfg.PageSize)
	assert.Equal(t, 10, cfg.RequestTimeoutSec)
	assert.Equal(t, string(domain.SortByName), cfg.DefaultSort)
}

func TestLoadFromPathRejectsBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("server_url = [broken"), 0644))

	svc := NewConfigService()
	_, err := svc.LoadFromPath(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HANGARVIEW_SERVER_URL", "http://override:1234")
	t.Setenv("HANGARVIEW_PAGE_SIZE", "75")

	cfg := DefaultConfig()
	require.NoError(t, applyEnvOverrides(cfg))

	assert.Equal(t, "http://override:1234", cfg.ServerURL)
	assert.Equal(t, 75, cfg.PageSize)
}

func TestEnvOverridesIgnoreEmpty(t *testing.T) {
	t.Setenv("HANGARVIEW_SERVER_URL", "")

	cfg := DefaultConfig()
	require.NoError(t, applyEnvOverrides(cfg))

	assert.Equal(t, "http://localhost:8700", cfg.ServerURL)
	assert.Equal(t, 30, cfg.PageSize)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 30, cfg.PageSize)
	assert.True(t, cfg.UISettings.ShowTabCounts)
	assert.True(t, cfg.UISettings.AutosaveOnExit)
}
