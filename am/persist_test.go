package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "am.toml")

	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want.Layout, cfg.Layout)
	assert.Equal(t, want.Camera, cfg.Camera)
	assert.Equal(t, want.Graph, cfg.Graph)
	assert.Equal(t, want.Server.Port, cfg.Server.Port)
}

func TestWriteDefault_RotatesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte("# original\n"), DefaultFilePermissions))

	require.NoError(t, WriteDefault(path))
	require.NoError(t, WriteDefault(path))

	back1, err := os.ReadFile(path + ".back1")
	require.NoError(t, err)
	assert.NotContains(t, string(back1), "# original")

	back2, err := os.ReadFile(path + ".back2")
	require.NoError(t, err)
	assert.Contains(t, string(back2), "# original")
}

func TestSaveFilter_PreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte("[layout]\ngravity = 3.0\n"), DefaultFilePermissions))

	err := SaveFilter(path, FilterConfig{MinStrength: 0.3, MinScore: 8, Genres: []string{"Horror"}})
	require.NoError(t, err)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Layout.Gravity)
	assert.Equal(t, 0.3, cfg.Filter.MinStrength)
	assert.Equal(t, 8.0, cfg.Filter.MinScore)
	assert.Equal(t, []string{"Horror"}, cfg.Filter.Genres)
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("/tmp/am.toml.back1"))
	assert.True(t, isBackupFile("am.toml.back3"))
	assert.False(t, isBackupFile("am.toml"))
}
