package wm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFallsBackToDefaultsWhenPathEmpty(t *testing.T) {
	cfg := LoadConfig("", nil)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFallsBackToDefaultsOnUnreadableFile(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.ini"), nil)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wincore.ini")
	cfg := DefaultConfig()
	cfg.SubspaceCount = 4
	cfg.SubspaceRows = 2
	cfg.WrapSubspaces = true
	cfg.EdgeReactivateThreshold = 500 * time.Millisecond

	require.NoError(t, cfg.Save(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded := LoadConfig(path, nil)
	assert.Equal(t, 4, loaded.SubspaceCount)
	assert.Equal(t, 2, loaded.SubspaceRows)
	assert.True(t, loaded.WrapSubspaces)
	assert.Equal(t, 500*time.Millisecond, loaded.EdgeReactivateThreshold)
}
