package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/fintrack/internal/money"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const transactionColumns = `id, user_id, category_id, type, amount, note, created_at, updated_at`

func (q *Queries) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	transaction.CreatedAt = now()
	transaction.UpdatedAt = transaction.CreatedAt

	query := `
		INSERT INTO transactions (id, user_id, category_id, type, amount, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := q.q.exec(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.CategoryID,
		string(transaction.Type),
		money.Format(transaction.Amount),
		transaction.Note,
		transaction.CreatedAt,
		transaction.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating transaction: %w", err)
	}
	return nil
}

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	return q.getTransaction(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
}

func (q *Queries) GetTransactionForUpdate(ctx context.Context, id string) (*models.Transaction, error) {
	return q.getTransaction(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`+q.forUpdate(), id)
}

func (q *Queries) getTransaction(ctx context.Context, query, id string) (*models.Transaction, error) {
	transaction, err := scanTransaction(q.q.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, ErrNoRows)
		}
		return nil, fmt.Errorf("error getting transaction: %w", err)
	}
	return transaction, nil
}

// GetTransactionsByUserID returns the user's transactions, newest first.
func (q *Queries) GetTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC, id`
	rs, err := q.q.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	defer rs.Close()

	transactions := []models.Transaction{}
	for rs.Next() {
		transaction, err := scanTransaction(rs)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, rs.Err()
}

func (q *Queries) UpdateTransaction(ctx context.Context, transaction *models.Transaction) error {
	transaction.UpdatedAt = now()
	query := `
		UPDATE transactions
		SET category_id = $1, type = $2, amount = $3, note = $4, updated_at = $5
		WHERE id = $6`

	n, err := q.q.exec(ctx, query,
		transaction.CategoryID,
		string(transaction.Type),
		money.Format(transaction.Amount),
		transaction.Note,
		transaction.UpdatedAt,
		transaction.ID)
	if err != nil {
		return fmt.Errorf("error updating transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", transaction.ID, ErrNoRows)
	}
	return nil
}

func (q *Queries) DeleteTransaction(ctx context.Context, id string) error {
	n, err := q.q.exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNoRows)
	}
	return nil
}

func (q *Queries) CountTransactions(ctx context.Context, userID string) (int, error) {
	var n int
	err := q.q.queryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting transactions: %w", err)
	}
	return n, nil
}

func scanTransaction(r row) (*models.Transaction, error) {
	var (
		transaction models.Transaction
		typ, amount string
	)
	err := r.Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.CategoryID,
		&typ,
		&amount,
		&transaction.Note,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	transaction.Type = models.TransactionType(typ)
	if transaction.Amount, err = money.ParseStored(amount); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", transaction.ID, err)
	}
	return &transaction, nil
}
