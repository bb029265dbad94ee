// Package cmd provides the fintrack CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/internal/config"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
)

var (
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Personal finance tracker",
	Long: `fintrack keeps account balances, budgets and saving goals in sync with
the transactions a user records, and serves them over a JSON HTTP API.

Example:
  fintrack migrate
  fintrack serve
  fintrack seed --users 5`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(outboxCmd)
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadConfig loads and validates the configuration. A debug setting in the
// config turns on debug logging even without --debug.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Debug && !debug {
		setupLogging(true)
	}
	return cfg, nil
}

// openDB connects to the configured database and brings its schema up to
// date.
func openDB(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	slog.Debug("opening database", "driver", cfg.Database.Driver)
	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
