// Command assocsync serves the association sync API.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnwards/assocsync/internal/config"
)

var (
	// configFile is set by the --config flag.
	configFile string

	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "assocsync",
	Short: "Keep local association records and CRM associations in sync",
	Long: `assocsync stores association definitions, associations and their CRM
mappings in SQLite and mirrors every change to the HubSpot v4 associations
API.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./assocsync.yaml if present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(fakecrmCmd)
}

// loadConfig reads configuration and installs the default logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
