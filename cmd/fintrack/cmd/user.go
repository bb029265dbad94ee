package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
	"github.com/valeriaulyamaeva/fintrack/models"
	"golang.org/x/term"
)

var userName string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a user with an empty account",
	Long: `Create a user and its zero-balance account. The password is read from
the terminal without echo, or from stdin when it is not a terminal.

Example:
  fintrack user create anna@example.com --name Anna`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		user := &models.User{Name: userName, Email: strings.TrimSpace(args[0]), PasswordHash: hash}
		if user.Name == "" {
			user.Name = user.Email
		}
		account, err := ledger.New(db, nil, nil).OpenUser(cmd.Context(), user)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %s created with account %s\n", user.ID, account.ID)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <email>",
	Short: "Delete a user together with its account and records",
	Args:  cobra.ExactArgs(1),
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

		user, err := db.GetUserByEmail(cmd.Context(), strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		if err := ledger.New(db, nil, nil).CloseUser(cmd.Context(), user.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %s deleted\n", user.ID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name (default is the email)")
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userDeleteCmd)
}

func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("error reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
