// Package config provides configuration types, defaults, and
// persistence for surfaces.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/surfaces/internal/tracing"
)

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowHelpBar   bool   `mapstructure:"show_help_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	Overlays      bool   `mapstructure:"overlays"`       // start with overlays visible
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// Config holds all configuration options for surfaces.
type Config struct {
	DeckPath       string         `mapstructure:"deck_path"`
	AutoReload     bool           `mapstructure:"auto_reload"`
	ReloadDebounce int            `mapstructure:"reload_debounce_ms"`
	UI             UIConfig       `mapstructure:"ui"`
	Theme          ThemeConfig    `mapstructure:"theme"`
	Tracing        tracing.Config `mapstructure:"tracing"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		AutoReload:     true,
		ReloadDebounce: 500,
		UI: UIConfig{
			ShowHelpBar:   true,
			MarkdownStyle: "dark",
		},
		Theme: ThemeConfig{
			Highlight: "#54A0FF",
			Subtle:    "#696969",
			Error:     "#FF6B6B",
			Success:   "#73F59F",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// defaultConfigYAML is written verbatim so first-run users get a
// commented file instead of a bare marshal dump.
const defaultConfigYAML = `# surfaces configuration
#
# deck_path: path/to/deck.yaml   # deck to open when no --deck flag is given
auto_reload: true                # reload the deck when the file changes
reload_debounce_ms: 500

ui:
  show_help_bar: true
  markdown_style: dark           # dark or light
  overlays: false                # start with diagnostic overlays visible

theme:
  highlight: "#54A0FF"
  subtle: "#696969"
  error: "#FF6B6B"
  success: "#73F59F"

tracing:
  enabled: false
  exporter: file                 # none, file, stdout or otlp
`

// WriteDefaultConfig writes the commented default config file at path,
// creating parent directories as needed. Existing files are preserved.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Sanity-check that the template stays parseable YAML.
	var probe map[string]any
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &probe); err != nil {
		return fmt.Errorf("default config template invalid: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
