package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almanac/calendar-engine/config"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "almanac.yaml")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "./data/almanac.db", cfg.Database)
	require.Len(t, cfg.Preload, 1)
	assert.Equal(t, "gregorian", cfg.Preload[0].Preset)

	// The default was written out and loads back identically.
	_, err = os.Stat(path)
	require.NoError(t, err)
	again, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almanac.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"database: /tmp/other.db\npreload:\n  - preset: harptos\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen, "missing listen falls back")
	assert.Equal(t, "/tmp/other.db", cfg.Database)
	require.Len(t, cfg.Preload, 1)
	assert.Equal(t, "harptos", cfg.Preload[0].ID, "preload ID defaults to the preset ID")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almanac.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "almanac.yaml")
	want := &config.Config{
		Listen:   ":9090",
		Database: ":memory:",
		Preload: []config.PreloadConfig{
			{Preset: "harptos", ID: "world-1"},
			{File: "./my-calendar.json", ID: "custom"},
		},
	}
	require.NoError(t, config.Save(path, want))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEmptyPathRejected(t *testing.T) {
	_, err := config.Load("")
	require.Error(t, err)
	require.Error(t, config.Save("", config.DefaultConfig()))
}
