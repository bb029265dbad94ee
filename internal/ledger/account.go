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

type Direction int

const (
	Increase Direction = iota
	Decrease
)

func (d Direction) String() string {
	if d == Decrease {
		return "decreased"
	}
	return "increased"
}

// OpenUser creates the user together with its zero-balance account.
func (s *Service) OpenUser(ctx context.Context, user *models.User) (*models.Account, error) {
	account := &models.Account{Balance: money.Zero}
	err := s.db.RunInTx(ctx, func(q *database.Queries) error {
		if err := q.CreateUser(ctx, user); err != nil {
			return err
		}
		account.UserID = user.ID
		return q.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// CloseUser deletes the user's account and then the user. Everything else the
// user owns goes with the user row.
func (s *Service) CloseUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingID
	}
	return s.db.RunInTx(ctx, func(q *database.Queries) error {
		account, err := q.GetAccountByUserForUpdate(ctx, userID)
		if err != nil {
			return accountErr(err, userID)
		}
		if err := q.DeleteAccount(ctx, account.ID); err != nil {
			return err
		}
		if err := q.DeleteUser(ctx, userID); err != nil {
			return notFound(err, "user", userID)
		}
		return nil
	})
}

// GetAccountByUser returns the account owned by userID.
func (s *Service) GetAccountByUser(ctx context.Context, userID string) (*models.Account, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	account, err := s.db.GetAccountByUserID(ctx, userID)
	if err != nil {
		return nil, accountErr(err, userID)
	}
	return account, nil
}

// GetBalance returns the stored balance of the account. A balance that does
// not parse is an error, not zero.
func (s *Service) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.db.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, accountErr(err, accountID)
	}
	return account.Balance, nil
}

// ApplyDelta moves the balance of accountID by delta in the given direction
// and returns the new balance. A result below zero is rejected with
// ErrInsufficientFunds and leaves the balance untouched.
func (s *Service) ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, dir Direction) (decimal.Decimal, error) {
	var (
		account *models.Account
		balance decimal.Decimal
	)
	err := s.runInTx(ctx, func(q *database.Queries) error {
		var err error
		account, err = q.GetAccountForUpdate(ctx, accountID)
		if err != nil {
			return accountErr(err, accountID)
		}
		balance, err = applyToAccount(ctx, q, account, signed(delta, dir))
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.notify(ctx, account.UserID, balanceMessage(delta, dir, balance))
	return balance, nil
}

// AdjustBalance is the explicit balance correction requested by a user. The
// amount may carry any sign; increase picks the direction.
func (s *Service) AdjustBalance(ctx context.Context, userID, amountText string, increase bool) (*models.Account, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	delta, err := money.ParseDelta(amountText)
	if err != nil {
		return nil, err
	}
	dir := Decrease
	if increase {
		dir = Increase
	}

	account, err := s.GetAccountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance, err := s.ApplyDelta(ctx, account.ID, delta, dir)
	if err != nil {
		return nil, err
	}
	account.Balance = balance
	return account, nil
}

// applyToAccount adds delta to the locked account and writes it back.
func applyToAccount(ctx context.Context, q *database.Queries, account *models.Account, delta decimal.Decimal) (decimal.Decimal, error) {
	balance := account.Balance.Add(delta)
	if balance.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: balance %s cannot cover %s",
			ErrInsufficientFunds, money.Format(account.Balance), money.Format(delta.Neg()))
	}
	if err := q.UpdateAccountBalance(ctx, account, balance); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func signed(delta decimal.Decimal, dir Direction) decimal.Decimal {
	if dir == Decrease {
		return delta.Neg()
	}
	return delta
}

func balanceMessage(delta decimal.Decimal, dir Direction, balance decimal.Decimal) string {
	return fmt.Sprintf("Your balance %s by %s. New balance: %s", dir, money.Format(delta), money.Format(balance))
}

func accountErr(err error, id string) error {
	if errors.Is(err, database.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return err
}
