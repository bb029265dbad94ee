package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display user and transaction counts",
	Long: `Display how many users and transactions are stored and how many users
signed up each month.

Example:
  fintrack stats`,
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

		stats, err := db.GetUserStats(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "\n=== fintrack statistics ===")
		fmt.Fprintf(out, "Users:         %d\n", stats.TotalUsers)
		fmt.Fprintf(out, "Transactions:  %d\n", stats.TotalTransactions)
		for _, r := range stats.Registrations {
			fmt.Fprintf(out, "  %s  %d sign-ups\n", r.Month, r.Count)
		}
		fmt.Fprintln(out)
		return nil
	},
}
