package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReportExcel = "xlsx"
	ReportPDF   = "pdf"
)

// Report is the metadata row kept for every generated export.
type Report struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Format      string    `json:"format" db:"format"`
	PeriodStart time.Time `json:"period_start" db:"period_start"`
	PeriodEnd   time.Time `json:"period_end" db:"period_end"`
	GeneratedAt time.Time `json:"generated_at" db:"generated_at"`
}

type CategoryTotal struct {
	CategoryID string          `json:"category_id"`
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
}

// Summary aggregates a user's transactions over a period.
type Summary struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Net        decimal.Decimal `json:"net"`
	Balance    decimal.Decimal `json:"balance"`
	ByCategory []CategoryTotal `json:"by_category"`
}
