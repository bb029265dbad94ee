package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalActive   = "active"
	GoalAchieved = "achieved"
)

type SavingGoal struct {
	ID            string          `json:"id" db:"id"`
	UserID        string          `json:"user_id" db:"user_id"`
	CategoryID    string          `json:"category_id" db:"category_id"`
	Title         string          `json:"title" db:"title"`
	TargetAmount  decimal.Decimal `json:"target_amount" db:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	Deadline      time.Time       `json:"deadline" db:"deadline"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

func (g *SavingGoal) RemainingAmount() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}

// Reached reports whether the saved amount covers the target.
func (g *SavingGoal) Reached() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
