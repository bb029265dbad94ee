package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/money"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const accountColumns = `id, user_id, balance, version, updated_at`

func (q *Queries) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.UpdatedAt = now()

	query := `
		INSERT INTO accounts (id, user_id, balance, version, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := q.q.exec(ctx, query,
		account.ID,
		account.UserID,
		money.Format(account.Balance),
		account.Version,
		account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating account: %w", err)
	}
	return nil
}

func (q *Queries) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return q.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (q *Queries) GetAccountByUserID(ctx context.Context, userID string) (*models.Account, error) {
	return q.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY updated_at LIMIT 1`, userID)
}

// GetAccountForUpdate reads the account and, on PostgreSQL, locks the row
// until the surrounding transaction ends.
func (q *Queries) GetAccountForUpdate(ctx context.Context, id string) (*models.Account, error) {
	return q.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`+q.forUpdate(), id)
}

func (q *Queries) GetAccountByUserForUpdate(ctx context.Context, userID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY updated_at LIMIT 1` + q.forUpdate()
	return q.getAccount(ctx, query, userID)
}

func (q *Queries) getAccount(ctx context.Context, query, arg string) (*models.Account, error) {
	var (
		account models.Account
		balance string
	)
	err := q.q.queryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.UserID,
		&balance,
		&account.Version,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", arg, ErrNoRows)
		}
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	if account.Balance, err = money.ParseStored(balance); err != nil {
		return nil, fmt.Errorf("account %s: %w", account.ID, err)
	}
	return &account, nil
}

// UpdateAccountBalance writes a new balance if the row still carries the
// version the caller read. Otherwise ErrConflict is returned and nothing is
// written.
func (q *Queries) UpdateAccountBalance(ctx context.Context, account *models.Account, balance decimal.Decimal) error {
	updatedAt := now()
	query := `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`

	n, err := q.q.exec(ctx, query, money.Format(balance), updatedAt, account.ID, account.Version)
	if err != nil {
		return fmt.Errorf("error updating account balance: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", account.ID, ErrConflict)
	}
	account.Balance = balance
	account.Version++
	account.UpdatedAt = updatedAt
	return nil
}

func (q *Queries) DeleteAccount(ctx context.Context, id string) error {
	n, err := q.q.exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", id, ErrNoRows)
	}
	return nil
}
