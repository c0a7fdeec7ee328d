package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.True(t, cfg.AutoReload)
	require.Equal(t, 500, cfg.ReloadDebounce)
	require.True(t, cfg.UI.ShowHelpBar)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle)
	require.False(t, cfg.UI.Overlays)
	require.NotEmpty(t, cfg.Theme.Highlight)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "surfaces", cfg.Tracing.ServiceName)
}

func TestWriteDefaultConfig_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path) //nolint:gosec
	require.NoError(t, err)
	require.Contains(t, string(data), "auto_reload")

	// The written template must be valid YAML.
	var probe map[string]any
	require.NoError(t, yaml.Unmarshal(data, &probe))
	require.Contains(t, probe, "ui")
	require.Contains(t, probe, "theme")
	require.Contains(t, probe, "tracing")
}

func TestWriteDefaultConfig_PreservesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("custom: true\n"), 0o600))

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path) //nolint:gosec
	require.NoError(t, err)
	require.Equal(t, "custom: true\n", string(data))
}
