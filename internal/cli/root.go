// Package cli implements the protrack command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/internal/paths"
	"github.com/protrack-ai/protrack/internal/store"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

// cfg is the loaded viper configuration, available to subcommands after
// PersistentPreRunE.
var cfg = newDefaultConfig()

var rootCmd = &cobra.Command{
	Use:     "protrack",
	Short:   "ProTrack is a local-first task and journal tracker",
	Version: Version,
	Long: `ProTrack tracks tasks, daily journal entries, and observations in a
local key-value store, with optional cloud mirroring, periodic folder
backups, and AI-generated weekly reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		loaded, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		cfg = loaded
		configDataDir = cfg.GetString(cfgKeyDataDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.protrack-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "log output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(reportCmd)
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

// resolveConfigDir returns the configuration directory following the
// precedence: --config-dir flag > PROTRACK_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the data directory following the precedence:
// --data-dir flag > config.yaml data_dir > PROTRACK_DATA_DIR env >
// $(CWD)/.protrack-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// newLogger builds the process logger. JSON mode uses the production
// encoder; the default is the human-readable development encoder.
func newLogger() (*zap.Logger, error) {
	if flagJSON {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openStore resolves the data directory and opens the configured backend.
func openStore(log *zap.Logger) (*store.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}

	storeCfg := store.Config{
		Backend: cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	st, err := store.Open(storeCfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
