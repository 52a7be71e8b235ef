package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bingo.log")
	require.NoError(t, Setup("info", file))
	t.Cleanup(func() { _ = Setup("debug", "") })

	Infof("game %s created", "g-1")
	Debugf("hidden at info level")
	Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "game g-1 created")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Setup("loud", ""))
}

func TestLevelHelpers(t *testing.T) {
	file := filepath.Join(t.TempDir(), "levels.log")
	require.NoError(t, Setup("debug", file))
	t.Cleanup(func() { _ = Setup("debug", "") })

	Debugf("draw %d", 1)
	Warnf("slow watcher %s", "w-1")
	Errorf("store write failed: %v", "disk full")
	Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	for _, want := range []string{`"level":"DEBUG"`, `"level":"WARN"`, `"level":"ERROR"`, "slow watcher w-1", "disk full"} {
		assert.Contains(t, string(data), want)
	}
}
