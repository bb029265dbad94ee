package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/internal/config"
	"github.com/valeriaulyamaeva/fintrack/internal/notify"
)

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "Show notifications waiting for delivery and those given up on",
	Long: `List the messages still pending in the notification outbox and the ones
that failed too many times. The outbox file is locked by a running server, so
stop it first.

Example:
  fintrack outbox`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		outbox, err := notify.OpenOutbox(cfg.Notify.OutboxPath)
		if err != nil {
			return err
		}
		defer outbox.Close()

		return printOutbox(cmd.OutOrStdout(), outbox)
	},
}

func printOutbox(w io.Writer, outbox *notify.Outbox) error {
	pending, err := outbox.Pending()
	if err != nil {
		return err
	}
	dead, err := outbox.Dead()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Pending: %d\n", len(pending))
	for _, m := range pending {
		fmt.Fprintf(w, "  %s  user=%s  attempts=%d  %q\n", m.ID, m.UserID, m.Attempts, m.Text)
	}
	fmt.Fprintf(w, "Dead: %d\n", len(dead))
	for _, m := range dead {
		fmt.Fprintf(w, "  %s  user=%s  attempts=%d  last error: %s\n", m.ID, m.UserID, m.Attempts, m.LastError)
	}
	return nil
}
