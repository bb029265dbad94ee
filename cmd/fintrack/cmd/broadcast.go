package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/notify"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast <message>",
	Short: "Send a notification to every user",
	Long: `Queue the same notification for every registered user. The outbox file
is locked by a running server, so stop it first.

Example:
  fintrack broadcast "Welcome to fintrack!"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		outbox, err := notify.OpenOutbox(cfg.Notify.OutboxPath)
		if err != nil {
			return err
		}
		defer outbox.Close()

		dispatcher := notify.NewDispatcher(outbox, notify.StoreSink{DB: db}, notify.Options{
			Workers: cfg.Notify.Workers,
			Logger:  slog.Default(),
		})
		dispatcher.Start()
		defer dispatcher.Stop()

		sent, err := broadcast(cmd.Context(), db, dispatcher, args[0])
		if err != nil {
			return err
		}
		slog.Info("notifications queued", "users", sent)
		return nil
	},
}

func broadcast(ctx context.Context, db *database.DB, publisher notify.Publisher, text string) (int, error) {
	if text == "" {
		return 0, errors.New("message is required")
	}
	ids, err := db.ListUserIDs(ctx)
	if err != nil {
		return 0, err
	}
	for i, id := range ids {
		if err := publisher.Publish(ctx, id, text); err != nil {
			return i, fmt.Errorf("error notifying user %s: %w", id, err)
		}
	}
	return len(ids), nil
}
