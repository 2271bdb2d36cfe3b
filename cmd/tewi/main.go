// Tewi is a terminal interface for the Transmission BitTorrent daemon.
// It shows the torrent list in fixed-size pages with vim-style navigation,
// multi-marking, name search, and the usual torrent management actions.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/anlar/tewi-sub001/internal/config"
	"github.com/anlar/tewi-sub001/internal/logx"
	"github.com/anlar/tewi-sub001/internal/theme"
	"github.com/anlar/tewi-sub001/internal/tui"
	"github.com/anlar/tewi-sub001/internal/version"
)

var (
	flagHost            string
	flagPort            int
	flagUsername        string
	flagPassword        string
	flagViewMode        string
	flagPageSize        int
	flagRefreshInterval int
	flagDebug           bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tewi",
		Short: "Text-based interface for the Transmission BitTorrent daemon",
		Long: `Tewi ` + version.Version + ` - a terminal UI for Transmission.

Connects to a running Transmission daemon over its RPC interface and
presents the torrent list in pages. Configuration is read from
` + config.Path() + `; command-line flags override it.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				cfg = config.Default()
			}

			applyFlagOverrides(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			closer, err := logx.Setup(cfg.Debug.Logs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			} else {
				defer closer.Close()
			}

			model := tui.NewModel(cfg)
			p := tea.NewProgram(model, tea.WithAltScreen())

			watcher, err := theme.NewWatcher(func() {
				p.Send(tui.ThemeChangedMsg{})
			})
			if err == nil {
				defer watcher.Stop()
			}

			logx.L.Info().Str("version", version.Version).Msg("starting")
			_, err = p.Run()
			return err
		},
	}

	rootCmd.Version = version.Version

	rootCmd.Flags().StringVar(&flagHost, "host", "", "Transmission host")
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "Transmission RPC port")
	rootCmd.Flags().StringVar(&flagUsername, "username", "", "Transmission RPC username")
	rootCmd.Flags().StringVar(&flagPassword, "password", "", "Transmission RPC password")
	rootCmd.Flags().StringVar(&flagViewMode, "view-mode", "", "Torrent list view mode: card, compact or oneline")
	rootCmd.Flags().IntVar(&flagPageSize, "page-size", 0, "Torrents per page")
	rootCmd.Flags().IntVar(&flagRefreshInterval, "refresh-interval", 0, "Refresh interval in seconds")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Write debug logs to the state directory")

	return rootCmd
}

// applyFlagOverrides layers explicitly set flags over the loaded config
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Client.Host = flagHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Client.Port = flagPort
	}
	if cmd.Flags().Changed("username") {
		cfg.Client.Username = flagUsername
	}
	if cmd.Flags().Changed("password") {
		cfg.Client.Password = flagPassword
	}
	if cmd.Flags().Changed("view-mode") {
		cfg.UI.ViewMode = flagViewMode
	}
	if cmd.Flags().Changed("page-size") {
		cfg.UI.PageSize = flagPageSize
	}
	if cmd.Flags().Changed("refresh-interval") {
		cfg.UI.RefreshInterval = flagRefreshInterval
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug.Logs = flagDebug
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
