package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/fintrack/internal/money"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const budgetColumns = `id, user_id, category_id, name, initial_amount, current_amount, start_date, end_date, created_at, updated_at`

func (q *Queries) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	budget.CreatedAt = now()
	budget.UpdatedAt = budget.CreatedAt

	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := q.q.exec(ctx, query,
		budget.ID,
		budget.UserID,
		budget.CategoryID,
		budget.Name,
		money.Format(budget.InitialAmount),
		money.Format(budget.CurrentAmount),
		budget.StartDate.UTC(),
		budget.EndDate.UTC(),
		budget.CreatedAt,
		budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating budget: %w", err)
	}
	return nil
}

func (q *Queries) GetBudgetByID(ctx context.Context, id string) (*models.Budget, error) {
	return q.getBudget(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)
}

func (q *Queries) GetBudgetForUpdate(ctx context.Context, id string) (*models.Budget, error) {
	return q.getBudget(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`+q.forUpdate(), id)
}

func (q *Queries) getBudget(ctx context.Context, query, id string) (*models.Budget, error) {
	budget, err := scanBudget(q.q.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, fmt.Errorf("budget %s: %w", id, ErrNoRows)
		}
		return nil, fmt.Errorf("error getting budget: %w", err)
	}
	return budget, nil
}

func (q *Queries) GetBudgetsByUserID(ctx context.Context, userID string) ([]models.Budget, error) {
	return q.listBudgets(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY created_at`, userID)
}

// GetExpiredBudgets returns budgets whose window ended before the given time.
func (q *Queries) GetExpiredBudgets(ctx context.Context, before time.Time) ([]models.Budget, error) {
	return q.listBudgets(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE end_date < $1 ORDER BY end_date`, before.UTC())
}

func (q *Queries) listBudgets(ctx context.Context, query string, arg any) ([]models.Budget, error) {
	rs, err := q.q.query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error listing budgets: %w", err)
	}
	defer rs.Close()

	budgets := []models.Budget{}
	for rs.Next() {
		budget, err := scanBudget(rs)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *budget)
	}
	return budgets, rs.Err()
}

// UpdateBudget overwrites every mutable column, current amount included.
func (q *Queries) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = now()
	query := `
		UPDATE budgets
		SET category_id = $1, name = $2, initial_amount = $3, current_amount = $4,
			start_date = $5, end_date = $6, updated_at = $7
		WHERE id = $8`

	n, err := q.q.exec(ctx, query,
		budget.CategoryID,
		budget.Name,
		money.Format(budget.InitialAmount),
		money.Format(budget.CurrentAmount),
		budget.StartDate.UTC(),
		budget.EndDate.UTC(),
		budget.UpdatedAt,
		budget.ID)
	if err != nil {
		return fmt.Errorf("error updating budget: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("budget %s: %w", budget.ID, ErrNoRows)
	}
	return nil
}

// DeleteBudget removes the budget only when it belongs to userID.
func (q *Queries) DeleteBudget(ctx context.Context, id, userID string) error {
	n, err := q.q.exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting budget: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("budget %s: %w", id, ErrNoRows)
	}
	return nil
}

func scanBudget(r row) (*models.Budget, error) {
	var (
		budget           models.Budget
		initial, current string
	)
	err := r.Scan(
		&budget.ID,
		&budget.UserID,
		&budget.CategoryID,
		&budget.Name,
		&initial,
		&current,
		&budget.StartDate,
		&budget.EndDate,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if budget.InitialAmount, err = money.ParseStored(initial); err != nil {
		return nil, fmt.Errorf("budget %s: %w", budget.ID, err)
	}
	if budget.CurrentAmount, err = money.ParseStored(current); err != nil {
		return nil, fmt.Errorf("budget %s: %w", budget.ID, err)
	}
	return &budget, nil
}
