package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

// ParseTransactionType accepts the labels sent by clients in any casing
// ("income", "EXPENSE") and returns the canonical form.
func ParseTransactionType(label string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", label)
}

// Sign is +1 for money coming into the account and -1 for money leaving it.
func (t TransactionType) Sign() decimal.Decimal {
	if t == Expense {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

type Transaction struct {
	ID         string          `json:"id" db:"id"`
	UserID     string          `json:"user_id" db:"user_id"`
	CategoryID string          `json:"category_id" db:"category_id"`
	Type       TransactionType `json:"type" db:"type"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Note       string          `json:"note" db:"note"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// Delta is the signed effect of the transaction on the account balance.
func (t *Transaction) Delta() decimal.Decimal {
	return t.Amount.Mul(t.Type.Sign())
}
