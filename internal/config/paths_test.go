package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewPaths(PathsConfig{
		DataDir: filepath.Join(dir, "data"),
		LogsDir: filepath.Join(dir, "logs"),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(dir, "data", "raw"), paths.RawDir)
	assert.Equal(t, filepath.Join(dir, "data", "processed"), paths.ProcessedDir)
	assert.Equal(t, filepath.Join(dir, "logs"), paths.LogsDir)
}

func TestNewPaths_ResolvesRelative(t *testing.T) {
	paths, err := NewPaths(PathsConfig{DataDir: "data", LogsDir: "logs"})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.DataDir))
	assert.True(t, filepath.IsAbs(paths.LogsDir))
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewPaths(PathsConfig{
		DataDir: filepath.Join(dir, "data"),
		LogsDir: filepath.Join(dir, "logs"),
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	for _, d := range []string{paths.DataDir, paths.RawDir, paths.ProcessedDir, paths.LogsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, d)
		assert.True(t, info.IsDir(), d)
	}
}

func TestPathHelpers(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewPaths(PathsConfig{
		DataDir: filepath.Join(dir, "data"),
		LogsDir: filepath.Join(dir, "logs"),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(paths.RawDir, "a.csv"), paths.GetRawPath("a.csv"))
	assert.Equal(t, filepath.Join(paths.ProcessedDir, PrefixSummaryCSV), paths.GetProcessedPath(PrefixSummaryCSV))
	assert.Equal(t, filepath.Join(paths.LogsDir, "run.log"), paths.GetLogPath("run.log"))
}
