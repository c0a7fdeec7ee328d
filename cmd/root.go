package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/surfaces/internal/app"
	"github.com/zjrosen/surfaces/internal/config"
	"github.com/zjrosen/surfaces/internal/deck"
	"github.com/zjrosen/surfaces/internal/log"
	"github.com/zjrosen/surfaces/internal/tracing"
	"github.com/zjrosen/surfaces/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query the terminal background color
	// BEFORE the Bubble Tea program starts. Otherwise the terminal's
	// OSC 11 response races with the input loop and shows up as
	// garbage text.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "surfaces",
	Short:   "A terminal ui for browsing decks of shared surfaces",
	Long: `A terminal user interface that renders a recursive deck of cards, rows
and stacks where the same card may appear at several positions at once,
with deterministic focus cycling across its live occurrences.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/surfaces/config.yaml)")
	rootCmd.Flags().StringP("deck", "d", "",
		"path to deck file (default: built-in demo deck)")
	rootCmd.Flags().Bool("no-watch", false,
		"disable automatic reload when the deck file changes")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log next to the config file")
	rootCmd.Flags().Bool("trace", false,
		"enable OpenTelemetry tracing of focus dispatches")

	_ = viper.BindPFlag("deck_path", rootCmd.Flags().Lookup("deck"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("reload_debounce_ms", defaults.ReloadDebounce)
	viper.SetDefault("ui.show_help_bar", defaults.UI.ShowHelpBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.overlays", defaults.UI.Overlays)
	viper.SetDefault("theme.highlight", defaults.Theme.Highlight)
	viper.SetDefault("theme.subtle", defaults.Theme.Subtle)
	viper.SetDefault("theme.error", defaults.Theme.Error)
	viper.SetDefault("theme.success", defaults.Theme.Success)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .surfaces/config.yaml (current directory)
		// 2. ~/.config/surfaces/config.yaml (user config)
		if _, err := os.Stat(".surfaces/config.yaml"); err == nil {
			viper.SetConfigFile(".surfaces/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "surfaces"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".surfaces/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If the write fails, continue with defaults.
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logPath := filepath.Join(".surfaces", "debug.log")
		if cleanup, err := log.InitWithTeaLog(logPath, "surfaces"); err == nil {
			defer cleanup()
		}
	}

	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.AutoReload = false
	}
	if traceFlag, _ := cmd.Flags().GetBool("trace"); traceFlag {
		cfg.Tracing.Enabled = true
		if cfg.Tracing.Exporter == "file" && cfg.Tracing.FilePath == "" {
			cfg.Tracing.FilePath = filepath.Join(".surfaces", "traces", "traces.jsonl")
		}
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error)

	var (
		d      *deck.Deck
		source []byte
	)
	deckPath := cfg.DeckPath
	if deckPath == "" {
		d = deck.Demo()
	} else {
		source, err = os.ReadFile(deckPath) //nolint:gosec // G304: user-chosen deck file
		if err != nil {
			return fmt.Errorf("reading deck %s: %w", deckPath, err)
		}
		d, err = deck.Parse(source)
		if err != nil {
			return fmt.Errorf("loading deck %s: %w", deckPath, err)
		}
	}

	zone.NewGlobal()
	model := app.New(cfg, deckPath, d, source, provider.Tracer())
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
