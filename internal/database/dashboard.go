package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// GetTransactionsBetween returns the user's transactions created in
// [from, to), newest first. A zero bound leaves that side open.
func (q *Queries) GetTransactionsBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Transaction, error) {
	all, err := q.GetTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if !from.IsZero() && t.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !t.CreatedAt.Before(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// GetSummary totals income and expenses over the window and breaks expenses
// down per category. Sums are done on decimals, not in SQL, because amounts
// are stored as text.
func (q *Queries) GetSummary(ctx context.Context, userID string, from, to time.Time) (*models.Summary, error) {
	transactions, err := q.GetTransactionsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error building summary: %w", err)
	}
	categories, err := q.GetCategoriesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error building summary: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	summary := &models.Summary{}
	perCategory := map[string]decimal.Decimal{}
	for _, t := range transactions {
		switch t.Type {
		case models.Income:
			summary.Income = summary.Income.Add(t.Amount)
		case models.Expense:
			summary.Expense = summary.Expense.Add(t.Amount)
			perCategory[t.CategoryID] = perCategory[t.CategoryID].Add(t.Amount)
		}
	}
	summary.Net = summary.Income.Sub(summary.Expense)

	for id, total := range perCategory {
		name := names[id]
		if name == "" {
			name = "Uncategorized"
		}
		summary.ByCategory = append(summary.ByCategory, models.CategoryTotal{CategoryID: id, Category: name, Total: total})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})

	account, err := q.GetAccountByUserID(ctx, userID)
	switch {
	case err == nil:
		summary.Balance = account.Balance
	case !errors.Is(err, ErrNoRows):
		return nil, err
	}
	return summary, nil
}
