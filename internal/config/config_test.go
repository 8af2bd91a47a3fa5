package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("LINKVIEW_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite3", cfg.Database.Driver)
	require.Equal(t, 15*time.Second, cfg.Renderer.Timeout)
	require.Equal(t, 32, cfg.Renderer.CacheSize)
	require.Equal(t, "Links", cfg.UI.Title)
	require.Equal(t, 2, cfg.UI.EdgeWidth)
	require.Equal(t, 10, cfg.UI.SwipeThreshold)
	require.NotEmpty(t, cfg.Database.Path)
	require.NotEmpty(t, cfg.Log.Path)
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[database]
path = "/tmp/links.db"
driver = "sqlite"

[renderer]
timeout = "3s"
cache_size = 4

[ui]
title = "Bookmarks"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("LINKVIEW_CONFIG", path)
	t.Setenv("LINKVIEW_UI_SWIPE_THRESHOLD", "6")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/links.db", cfg.Database.Path)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 3*time.Second, cfg.Renderer.Timeout)
	require.Equal(t, 4, cfg.Renderer.CacheSize)
	require.Equal(t, "Bookmarks", cfg.UI.Title)
	require.Equal(t, 6, cfg.UI.SwipeThreshold)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database\npath="), 0o600))
	t.Setenv("LINKVIEW_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("LINKVIEW_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Database.Path = "/var/lib/linkview.db"
	cfg.Renderer.Timeout = 7 * time.Second
	cfg.UI.Title = "Saved"
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestInitWritesOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkview", "config.toml")
	t.Setenv("LINKVIEW_CONFIG", path)
	t.Setenv("LINKVIEW_UI_TITLE", "From Env")

	got, created, err := Init()
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "From Env")

	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntitle = \"Edited\"\n"), 0o600))
	_, created, err = Init()
	require.NoError(t, err)
	require.False(t, created, "an existing file is left alone")

	t.Setenv("LINKVIEW_UI_TITLE", "")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Edited", cfg.UI.Title)
}
