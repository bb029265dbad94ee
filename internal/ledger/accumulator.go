package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/money"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// Budgets and saving goals keep a current amount that only moves when a
// caller says so. Unlike account balances it has no floor and no ceiling.

type BudgetInput struct {
	UserID        string
	CategoryID    string
	Name          string
	InitialAmount string
	StartDate     time.Time
	EndDate       time.Time
}

type BudgetUpdate struct {
	CategoryID    *string
	Name          *string
	InitialAmount *string
	StartDate     *time.Time
	EndDate       *time.Time
}

func (s *Service) CreateBudget(ctx context.Context, in BudgetInput) (*models.Budget, error) {
	if in.UserID == "" {
		return nil, ErrMissingID
	}
	initial, err := money.ParsePositive(in.InitialAmount)
	if err != nil {
		return nil, err
	}
	start, end := in.StartDate, in.EndDate
	if start.IsZero() {
		start = time.Now().UTC()
	}
	if end.IsZero() {
		end = start.AddDate(0, 1, 0)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: budget must end after it starts", ErrInvalidInput)
	}

	budget := &models.Budget{
		UserID:        in.UserID,
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		InitialAmount: initial,
		CurrentAmount: decimal.Zero,
		StartDate:     start,
		EndDate:       end,
	}
	if err := s.db.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *Service) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	budget, err := s.db.GetBudgetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "budget", id)
	}
	return budget, nil
}

func (s *Service) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	return s.db.GetBudgetsByUserID(ctx, userID)
}

func (s *Service) UpdateBudget(ctx context.Context, id string, in BudgetUpdate) (*models.Budget, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var initial *decimal.Decimal
	if in.InitialAmount != nil {
		d, err := money.ParsePositive(*in.InitialAmount)
		if err != nil {
			return nil, err
		}
		initial = &d
	}

	var budget *models.Budget
	err := s.db.RunInTx(ctx, func(q *database.Queries) error {
		var err error
		budget, err = q.GetBudgetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "budget", id)
		}
		if in.CategoryID != nil {
			budget.CategoryID = *in.CategoryID
		}
		if in.Name != nil {
			budget.Name = *in.Name
		}
		if initial != nil {
			budget.InitialAmount = *initial
		}
		if in.StartDate != nil {
			budget.StartDate = *in.StartDate
		}
		if in.EndDate != nil {
			budget.EndDate = *in.EndDate
		}
		if !budget.EndDate.After(budget.StartDate) {
			return fmt.Errorf("%w: budget must end after it starts", ErrInvalidInput)
		}
		return q.UpdateBudget(ctx, budget)
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// ApplyBudgetDelta adds or subtracts deltaText from the budget's current
// amount. The result may go below zero.
func (s *Service) ApplyBudgetDelta(ctx context.Context, id, deltaText string, isAdd bool) (*models.Budget, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	delta, err := money.ParseDelta(deltaText)
	if err != nil {
		return nil, err
	}

	var budget *models.Budget
	err = s.db.RunInTx(ctx, func(q *database.Queries) error {
		var err error
		budget, err = q.GetBudgetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "budget", id)
		}
		budget.CurrentAmount = accumulate(budget.CurrentAmount, delta, isAdd)
		return q.UpdateBudget(ctx, budget)
	})
	if err != nil {
		return nil, err
	}

	if budget.CurrentAmount.GreaterThan(budget.InitialAmount) {
		s.notify(ctx, budget.UserID, fmt.Sprintf("Budget %q is over its limit: %s of %s",
			budgetName(budget), money.Format(budget.CurrentAmount), money.Format(budget.InitialAmount)))
	}
	return budget, nil
}

// DeleteBudget removes the budget owned by ownerID.
func (s *Service) DeleteBudget(ctx context.Context, id, ownerID string) error {
	if id == "" || ownerID == "" {
		return ErrMissingID
	}
	if err := s.db.DeleteBudget(ctx, id, ownerID); err != nil {
		return notFound(err, "budget", id)
	}
	return nil
}

// RenewExpiredBudgets rolls every budget whose window has closed into the
// next window of the same length and resets its current amount.
func (s *Service) RenewExpiredBudgets(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.db.GetExpiredBudgets(ctx, now)
	if err != nil {
		return 0, err
	}

	renewed := 0
	for _, b := range expired {
		if !b.Expired(now) {
			continue
		}
		err := s.db.RunInTx(ctx, func(q *database.Queries) error {
			budget, err := q.GetBudgetForUpdate(ctx, b.ID)
			if err != nil {
				return err
			}
			if !budget.Expired(now) {
				return nil
			}
			length := budget.EndDate.Sub(budget.StartDate)
			for budget.Expired(now) {
				budget.StartDate = budget.EndDate
				budget.EndDate = budget.EndDate.Add(length)
			}
			budget.CurrentAmount = decimal.Zero
			return q.UpdateBudget(ctx, budget)
		})
		if err != nil {
			s.log.Error("error renewing budget", "budget_id", b.ID, "err", err)
			continue
		}
		renewed++
		s.notify(ctx, b.UserID, fmt.Sprintf("Budget %q has been renewed for a new period", budgetName(&b)))
	}
	return renewed, nil
}

type GoalInput struct {
	UserID       string
	CategoryID   string
	Title        string
	TargetAmount string
	Deadline     time.Time
}

type GoalUpdate struct {
	CategoryID   *string
	Title        *string
	TargetAmount *string
	Deadline     *time.Time
}

func (s *Service) CreateGoal(ctx context.Context, in GoalInput) (*models.SavingGoal, error) {
	if in.UserID == "" {
		return nil, ErrMissingID
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: goal title is required", ErrInvalidInput)
	}
	target, err := money.ParsePositive(in.TargetAmount)
	if err != nil {
		return nil, err
	}

	goal := &models.SavingGoal{
		UserID:        in.UserID,
		CategoryID:    in.CategoryID,
		Title:         in.Title,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
		Status:        models.GoalActive,
	}
	if goal.Deadline.IsZero() {
		goal.Deadline = time.Now().UTC().AddDate(1, 0, 0)
	}
	if err := s.db.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Service) GetGoal(ctx context.Context, id string) (*models.SavingGoal, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	goal, err := s.db.GetGoalByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "goal", id)
	}
	return goal, nil
}

func (s *Service) ListGoals(ctx context.Context, userID string) ([]models.SavingGoal, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	return s.db.GetAllGoals(ctx, userID)
}

func (s *Service) UpdateGoal(ctx context.Context, id string, in GoalUpdate) (*models.SavingGoal, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var target *decimal.Decimal
	if in.TargetAmount != nil {
		d, err := money.ParsePositive(*in.TargetAmount)
		if err != nil {
			return nil, err
		}
		target = &d
	}

	var goal *models.SavingGoal
	err := s.db.RunInTx(ctx, func(q *database.Queries) error {
		var err error
		goal, err = q.GetGoalForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "goal", id)
		}
		if in.CategoryID != nil {
			goal.CategoryID = *in.CategoryID
		}
		if in.Title != nil {
			goal.Title = *in.Title
		}
		if target != nil {
			goal.TargetAmount = *target
		}
		if in.Deadline != nil {
			goal.Deadline = *in.Deadline
		}
		goal.Status = goalStatus(goal)
		return q.UpdateGoal(ctx, goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// ApplyGoalDelta adds or subtracts deltaText from the goal's saved amount and
// flips the goal to achieved once the target is covered.
func (s *Service) ApplyGoalDelta(ctx context.Context, id, deltaText string, isAdd bool) (*models.SavingGoal, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	delta, err := money.ParseDelta(deltaText)
	if err != nil {
		return nil, err
	}

	var (
		goal        *models.SavingGoal
		justReached bool
	)
	err = s.db.RunInTx(ctx, func(q *database.Queries) error {
		var err error
		goal, err = q.GetGoalForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "goal", id)
		}
		before := goal.Status
		goal.CurrentAmount = accumulate(goal.CurrentAmount, delta, isAdd)
		goal.Status = goalStatus(goal)
		justReached = before != models.GoalAchieved && goal.Status == models.GoalAchieved
		return q.UpdateGoal(ctx, goal)
	})
	if err != nil {
		return nil, err
	}

	if justReached {
		s.notify(ctx, goal.UserID, fmt.Sprintf("Congratulations! Goal %q reached: %s saved",
			goal.Title, money.Format(goal.CurrentAmount)))
	}
	return goal, nil
}

// DeleteGoal removes the goal owned by ownerID.
func (s *Service) DeleteGoal(ctx context.Context, id, ownerID string) error {
	if id == "" || ownerID == "" {
		return ErrMissingID
	}
	if err := s.db.DeleteGoal(ctx, id, ownerID); err != nil {
		return notFound(err, "goal", id)
	}
	return nil
}

// RemindDueGoals notifies the owners of active goals whose deadline falls
// before now+within.
func (s *Service) RemindDueGoals(ctx context.Context, now time.Time, within time.Duration) (int, error) {
	goals, err := s.db.GetActiveGoalsDueBefore(ctx, now.Add(within))
	if err != nil {
		return 0, err
	}
	for _, g := range goals {
		var text string
		if g.Deadline.Before(now) {
			text = fmt.Sprintf("Goal %q passed its deadline with %s still to save", g.Title, money.Format(g.RemainingAmount()))
		} else {
			text = fmt.Sprintf("Goal %q is due on %s, %s still to save", g.Title, g.Deadline.Format("2006-01-02"), money.Format(g.RemainingAmount()))
		}
		s.notify(ctx, g.UserID, text)
	}
	return len(goals), nil
}

func accumulate(current, delta decimal.Decimal, isAdd bool) decimal.Decimal {
	if isAdd {
		return current.Add(delta)
	}
	return current.Sub(delta)
}

func goalStatus(g *models.SavingGoal) string {
	if g.Reached() {
		return models.GoalAchieved
	}
	return models.GoalActive
}

func budgetName(b *models.Budget) string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}
