package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID            string          `json:"id" db:"id"`
	UserID        string          `json:"user_id" db:"user_id"`
	CategoryID    string          `json:"category_id" db:"category_id"`
	Name          string          `json:"name" db:"name"`
	InitialAmount decimal.Decimal `json:"initial_amount" db:"initial_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	EndDate       time.Time       `json:"end_date" db:"end_date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the budget window closed before now.
func (b *Budget) Expired(now time.Time) bool {
	return !b.EndDate.IsZero() && b.EndDate.Before(now)
}
