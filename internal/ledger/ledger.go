// Package ledger keeps account balances consistent with the transactions
// recorded against them, and maintains the running amounts of budgets and
// saving goals.
//
// Every operation reads its rows inside one database transaction, computes
// the new state and writes it back before committing. Account rows carry a
// version that is compared on write, so a concurrent writer that slipped in
// between read and write causes a retry instead of a lost update.
// Notifications are published only after commit and their failure never
// undoes the change.
package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/money"
	"github.com/valeriaulyamaeva/fintrack/internal/notify"
)

var (
	ErrInvalidAmount     = money.ErrInvalidAmount
	ErrNonPositiveAmount = money.ErrNonPositiveAmount
	ErrInvalidType       = errors.New("transaction type must be Income or Expense")
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingID         = errors.New("id is required")
	ErrNotFound          = errors.New("not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// IsValidation reports whether err was caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrMissingID)
}

// IsNotFound reports whether err names a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrAccountNotFound)
}

const defaultMaxAttempts = 5

type Service struct {
	db          *database.DB
	publisher   notify.Publisher
	log         *slog.Logger
	maxAttempts int
}

// New builds the service. publisher may be nil, in which case nothing is
// published.
func New(db *database.DB, publisher notify.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:          db,
		publisher:   publisher,
		log:         logger.With("component", "ledger"),
		maxAttempts: defaultMaxAttempts,
	}
}

// runInTx runs fn in a transaction and retries it from scratch when a
// versioned write lost a race.
func (s *Service) runInTx(ctx context.Context, fn func(q *database.Queries) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.db.RunInTx(ctx, fn)
		if !errors.Is(err, database.ErrConflict) {
			return err
		}
		s.log.Debug("retrying after concurrent update", "attempt", attempt)
	}
	return err
}

// notify is fire-and-forget: errors are logged and dropped.
func (s *Service) notify(ctx context.Context, userID, text string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), userID, text); err != nil {
		s.log.Warn("error publishing notification", "user_id", userID, "err", err)
	}
}
