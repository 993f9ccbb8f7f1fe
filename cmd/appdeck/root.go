// Root command for the appdeck CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/appdeck/internal/config"
	"github.com/mesh-intelligence/appdeck/internal/paths"
	"github.com/mesh-intelligence/appdeck/pkg/appdeck"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagServer    string
	flagJSON      bool
	flagVerbose   bool
)

// cfg holds the configuration loaded by PersistentPreRunE for all
// subcommands.
var cfg *config.Config

// log is the process-wide logger, rebuilt once flags are parsed.
var log = slog.New(slog.NewTextHandler(os.Stderr, nil))

var rootCmd = &cobra.Command{
	Use:     "appdeck",
	Short:   "Appdeck is a no-code app builder with shareable mini-apps",
	Version: appdeck.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		cfg, err = config.Load(configDir)
		if err != nil {
			return err
		}
		if flagServer != "" {
			cfg.Remote.BaseURL = flagServer
		}

		dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.DataDir)
		if err != nil {
			return err
		}
		cfg.DataDir = dataDir
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.appdeck-db)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "server base URL for client commands (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(shareCmd)
}
