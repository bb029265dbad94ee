package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/money"
	"github.com/valeriaulyamaeva/fintrack/models"
)

type CreateTransactionInput struct {
	UserID     string
	CategoryID string
	Type       string
	Amount     string
	Note       string
}

// UpdateTransactionInput carries the fields to change; nil keeps the stored
// value.
type UpdateTransactionInput struct {
	CategoryID *string
	Type       *string
	Amount     *string
	Note       *string
}

// CreateTransaction records a transaction and moves the owner's balance by
// +amount for Income and -amount for Expense, in one unit of work.
func (s *Service) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error) {
	amount, err := money.ParsePositive(in.Amount)
	if err != nil {
		return nil, err
	}
	typ, err := models.ParseTransactionType(in.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidType, err)
	}

	transaction := &models.Transaction{
		UserID:     in.UserID,
		CategoryID: in.CategoryID,
		Type:       typ,
		Amount:     amount,
		Note:       in.Note,
	}
	var balance decimal.Decimal
	err = s.runInTx(ctx, func(q *database.Queries) error {
		account, err := q.GetAccountByUserForUpdate(ctx, in.UserID)
		if err != nil {
			return accountErr(err, in.UserID)
		}
		if balance, err = applyToAccount(ctx, q, account, transaction.Delta()); err != nil {
			return err
		}
		transaction.ID = ""
		return q.CreateTransaction(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, transaction.UserID, fmt.Sprintf("%s of %s recorded. New balance: %s",
		transaction.Type, money.Format(transaction.Amount), money.Format(balance)))
	return transaction, nil
}

// UpdateTransaction overwrites the given fields. When the amount or type
// changes, the old effect on the balance is reversed and the new one applied
// in the same unit of work.
func (s *Service) UpdateTransaction(ctx context.Context, id string, in UpdateTransactionInput) (*models.Transaction, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var (
		amount *decimal.Decimal
		typ    *models.TransactionType
	)
	if in.Amount != nil {
		a, err := money.ParsePositive(*in.Amount)
		if err != nil {
			return nil, err
		}
		amount = &a
	}
	if in.Type != nil {
		t, err := models.ParseTransactionType(*in.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidType, err)
		}
		typ = &t
	}

	var (
		updated      *models.Transaction
		balance      decimal.Decimal
		balanceMoved bool
	)
	err := s.runInTx(ctx, func(q *database.Queries) error {
		current, err := q.GetTransactionForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "transaction", id)
		}
		oldDelta := current.Delta()

		if in.CategoryID != nil {
			current.CategoryID = *in.CategoryID
		}
		if in.Note != nil {
			current.Note = *in.Note
		}
		if amount != nil {
			current.Amount = *amount
		}
		if typ != nil {
			current.Type = *typ
		}

		balanceMoved = false
		if diff := current.Delta().Sub(oldDelta); !diff.IsZero() {
			account, err := q.GetAccountByUserForUpdate(ctx, current.UserID)
			if err != nil {
				return accountErr(err, current.UserID)
			}
			if balance, err = applyToAccount(ctx, q, account, diff); err != nil {
				return err
			}
			balanceMoved = true
		}
		if err := q.UpdateTransaction(ctx, current); err != nil {
			return notFound(err, "transaction", id)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if balanceMoved {
		s.notify(ctx, updated.UserID, fmt.Sprintf("Transaction updated to %s of %s. New balance: %s",
			updated.Type, money.Format(updated.Amount), money.Format(balance)))
	}
	return updated, nil
}

// DeleteTransaction removes the transaction and reverses its effect on the
// balance. Removing an income that was already spent is rejected.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	var (
		deleted *models.Transaction
		balance decimal.Decimal
	)
	err := s.runInTx(ctx, func(q *database.Queries) error {
		var err error
		deleted, err = q.GetTransactionForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "transaction", id)
		}
		account, err := q.GetAccountByUserForUpdate(ctx, deleted.UserID)
		if err != nil {
			return accountErr(err, deleted.UserID)
		}
		if balance, err = applyToAccount(ctx, q, account, deleted.Delta().Neg()); err != nil {
			return err
		}
		return q.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, deleted.UserID, fmt.Sprintf("%s of %s deleted. New balance: %s",
		deleted.Type, money.Format(deleted.Amount), money.Format(balance)))
	return nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	transaction, err := s.db.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return transaction, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	return s.db.GetTransactionsByUserID(ctx, userID)
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, database.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return err
}
