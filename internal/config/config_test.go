package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFallsBackToDefaultsWhenConfigMissing(t *testing.T) {
	root := t.TempDir()
	cfg := New(root)

	assert.Equal(t, DefaultSettings().Indexing.MaxFileSizeMB, cfg.Settings.Indexing.MaxFileSizeMB)
	assert.False(t, cfg.IndexExists())
}

func TestSaveSettingsThenNewRoundTrips(t *testing.T) {
	root := t.TempDir()
	cfg := New(root)
	cfg.Settings.Indexing.MaxFileSizeMB = 42
	cfg.Settings.Output.Format = "pretty"

	require.NoError(t, cfg.SaveSettings())

	reloaded := New(root)
	assert.Equal(t, 42, reloaded.Settings.Indexing.MaxFileSizeMB)
	assert.Equal(t, "pretty", reloaded.Settings.Output.Format)
}

func TestMalformedConfigFallsBackToDefaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, rlmDirName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, rlmDirName, configFileName), []byte("not valid toml {{{"), 0o644))

	cfg := New(root)
	assert.Equal(t, DefaultSettings().Indexing.ExcludePatterns, cfg.Settings.Indexing.ExcludePatterns)
}

func TestRelativePathNormalizesSlashes(t *testing.T) {
	root := t.TempDir()
	cfg := New(root)

	abs := filepath.Join(root, "src", "lib.rs")
	assert.Equal(t, "src/lib.rs", cfg.RelativePath(abs))
}

func TestShouldExcludeMatchesConfiguredPatterns(t *testing.T) {
	root := t.TempDir()
	cfg := New(root)

	assert.True(t, cfg.ShouldExclude("node_modules/foo/index.js"))
	assert.True(t, cfg.ShouldExclude("vendor/pkg/pkg.go"))
	assert.False(t, cfg.ShouldExclude("src/lib.rs"))
}

func TestIsFileTooLarge(t *testing.T) {
	root := t.TempDir()
	cfg := New(root)
	cfg.Settings.Indexing.MaxFileSizeMB = 1

	assert.False(t, cfg.IsFileTooLarge(500*1024))
	assert.True(t, cfg.IsFileTooLarge(2*1024*1024))
}

func TestGetQualityLogPathDefaultsUnderRlmDir(t *testing.T) {
	root := t.TempDir()
	cfg := New(root)
	assert.Equal(t, filepath.Join(root, rlmDirName, qualityLogName), cfg.GetQualityLogPath())

	cfg.Settings.Quality.LogFile = "custom-issues.log"
	assert.Equal(t, filepath.Join(root, rlmDirName, "custom-issues.log"), cfg.GetQualityLogPath())
}

func TestEnsureRlmDirCreatesDirectory(t *testing.T) {
	root := t.TempDir()
	cfg := New(root)

	require.NoError(t, cfg.EnsureRlmDir())
	info, err := os.Stat(cfg.RlmDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
