package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
	"github.com/valeriaulyamaeva/fintrack/utils"
)

var seedOpts utils.SeedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with fake users and their finances",
	Long: `Generate demo users with categories, transactions, budgets and goals.
The generated logins are printed so they can be used against the API.

Example:
  fintrack seed --users 3 --transactions 50`,
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

		if seedOpts.Seed == 0 {
			seedOpts.Seed = time.Now().UnixNano()
		}
		users, err := utils.GenerateTestData(cmd.Context(), db, ledger.New(db, nil, slog.Default()), seedOpts)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", u.Email, u.Password)
		}
		slog.Info("test data generated", "users", len(users))
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", 5, "number of users")
	seedCmd.Flags().IntVar(&seedOpts.CategoriesPerUser, "categories", 5, "categories per user")
	seedCmd.Flags().IntVar(&seedOpts.TransactionsPerUser, "transactions", 20, "transactions per user")
	seedCmd.Flags().IntVar(&seedOpts.BudgetsPerUser, "budgets", 2, "budgets per user")
	seedCmd.Flags().IntVar(&seedOpts.GoalsPerUser, "goals", 2, "saving goals per user")
	seedCmd.Flags().Int64Var(&seedOpts.Seed, "seed", 0, "random seed (default is the current time)")
}
