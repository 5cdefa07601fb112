package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dist", cfg.Output.Dir)
	assert.Equal(t, "componentize-py", cfg.Tools.ComponentizePy)
	assert.Equal(t, "jco", cfg.Tools.Jco)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	assert.Equal(t, 30, cfg.Watch.MaxPerMinute)
	assert.False(t, cfg.Log.JSON)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wastalk.toml")
	contents := `
[output]
dir = "build"

[tools]
jco = "/opt/node/bin/jco"

[watch]
debounce_ms = 250
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "build", cfg.Output.Dir)
	assert.Equal(t, "/opt/node/bin/jco", cfg.Tools.Jco)
	assert.Equal(t, 250, cfg.Watch.DebounceMS)
	// Unset keys keep their defaults.
	assert.Equal(t, "componentize-py", cfg.Tools.ComponentizePy)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
