package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	original := configDir
	configDir = func() string { return dir }
	t.Cleanup(func() { configDir = original })
	return dir
}

func TestLoad_NoConfigFile(t *testing.T) {
	useTempDir(t)

	cfg, err := Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.NotNil(t, cfg.ExcludedPaths)
	assert.NotNil(t, cfg.ExtraCachePaths)
}

func TestSaveAndLoad_RoundTripsPreferences(t *testing.T) {
	dir := useTempDir(t)

	cfg := &UserConfig{
		ExcludedPaths:      map[string][]string{"cache": {"/keep/me"}},
		Protected:          []string{"wallet.dat"},
		DisabledCategories: []string{"mail"},
		Defaults:           Defaults{LargeMinSize: "500MB", LargeLimit: 50},
	}
	require.NoError(t, cfg.Save())
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	loaded, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"/keep/me"}, loaded.ExcludedPaths["cache"])
	assert.Equal(t, []string{"wallet.dat"}, loaded.Protected)
	assert.Equal(t, "500MB", loaded.Defaults.LargeMinSize)
	assert.Equal(t, 50, loaded.Defaults.LargeLimit)
	assert.NotNil(t, loaded.ExtraCachePaths)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := useTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("protected: [oops"), 0o644))

	_, err := Load()

	assert.Error(t, err)
}

func TestUserConfig_ExcludedPaths(t *testing.T) {
	cfg := newUserConfig()

	assert.False(t, cfg.IsExcluded("cache", "/some/path"))

	cfg.SetExcludedPaths("cache", []string{"/path/one", "/path/two"})

	assert.True(t, cfg.IsExcluded("cache", "/path/one"))
	assert.True(t, cfg.IsExcluded("cache", "/path/one/child"))
	assert.False(t, cfg.IsExcluded("cache", "/path/oneX"))
	assert.False(t, cfg.IsExcluded("junk", "/path/one"))

	cfg.SetExcludedPaths("cache", nil)
	assert.False(t, cfg.IsExcluded("cache", "/path/one"))
}

func TestUserConfig_IsCategoryDisabled(t *testing.T) {
	cfg := &UserConfig{DisabledCategories: []string{"mail"}}

	assert.True(t, cfg.IsCategoryDisabled("mail"))
	assert.False(t, cfg.IsCategoryDisabled("cache"))
}
