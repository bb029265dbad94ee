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

const goalColumns = `id, user_id, category_id, title, target_amount, current_amount, deadline, status, created_at, updated_at`

// CreateGoal adds a new saving goal.
func (q *Queries) CreateGoal(ctx context.Context, goal *models.SavingGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.Status == "" {
		goal.Status = models.GoalActive
	}
	goal.CreatedAt = now()
	goal.UpdatedAt = goal.CreatedAt

	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := q.q.exec(ctx, query,
		goal.ID,
		goal.UserID,
		goal.CategoryID,
		goal.Title,
		money.Format(goal.TargetAmount),
		money.Format(goal.CurrentAmount),
		goal.Deadline.UTC(),
		goal.Status,
		goal.CreatedAt,
		goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating goal: %w", err)
	}
	return nil
}

// GetGoalByID fetches a goal by ID.
func (q *Queries) GetGoalByID(ctx context.Context, id string) (*models.SavingGoal, error) {
	return q.getGoal(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)
}

func (q *Queries) GetGoalForUpdate(ctx context.Context, id string) (*models.SavingGoal, error) {
	return q.getGoal(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`+q.forUpdate(), id)
}

func (q *Queries) getGoal(ctx context.Context, query, id string) (*models.SavingGoal, error) {
	goal, err := scanGoal(q.q.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, fmt.Errorf("goal %s: %w", id, ErrNoRows)
		}
		return nil, fmt.Errorf("error getting goal: %w", err)
	}
	return goal, nil
}

// GetAllGoals returns every goal of the user.
func (q *Queries) GetAllGoals(ctx context.Context, userID string) ([]models.SavingGoal, error) {
	return q.listGoals(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY deadline`, userID)
}

// GetActiveGoalsDueBefore returns unfinished goals whose deadline is before t.
func (q *Queries) GetActiveGoalsDueBefore(ctx context.Context, t time.Time) ([]models.SavingGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE status = $1 AND deadline < $2 ORDER BY deadline`
	return q.listGoals(ctx, query, models.GoalActive, t.UTC())
}

func (q *Queries) listGoals(ctx context.Context, query string, args ...any) ([]models.SavingGoal, error) {
	rs, err := q.q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing goals: %w", err)
	}
	defer rs.Close()

	goals := []models.SavingGoal{}
	for rs.Next() {
		goal, err := scanGoal(rs)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rs.Err()
}

// UpdateGoal overwrites the goal, progress and status included.
func (q *Queries) UpdateGoal(ctx context.Context, goal *models.SavingGoal) error {
	goal.UpdatedAt = now()
	query := `
		UPDATE goals
		SET category_id = $1, title = $2, target_amount = $3, current_amount = $4,
			deadline = $5, status = $6, updated_at = $7
		WHERE id = $8`

	n, err := q.q.exec(ctx, query,
		goal.CategoryID,
		goal.Title,
		money.Format(goal.TargetAmount),
		money.Format(goal.CurrentAmount),
		goal.Deadline.UTC(),
		goal.Status,
		goal.UpdatedAt,
		goal.ID)
	if err != nil {
		return fmt.Errorf("error updating goal: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s: %w", goal.ID, ErrNoRows)
	}
	return nil
}

// DeleteGoal removes the goal only when it belongs to userID.
func (q *Queries) DeleteGoal(ctx context.Context, id, userID string) error {
	n, err := q.q.exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting goal: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s: %w", id, ErrNoRows)
	}
	return nil
}

func scanGoal(r row) (*models.SavingGoal, error) {
	var (
		goal            models.SavingGoal
		target, current string
	)
	err := r.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.CategoryID,
		&goal.Title,
		&target,
		&current,
		&goal.Deadline,
		&goal.Status,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if goal.TargetAmount, err = money.ParseStored(target); err != nil {
		return nil, fmt.Errorf("goal %s: %w", goal.ID, err)
	}
	if goal.CurrentAmount, err = money.ParseStored(current); err != nil {
		return nil, fmt.Errorf("goal %s: %w", goal.ID, err)
	}
	return &goal, nil
}
