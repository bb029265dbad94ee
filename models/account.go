package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the running balance of a user. Version is bumped on every
// balance write and guards against lost updates.
type Account struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	Version   int64           `json:"-" db:"version"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
