package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
	"github.com/valeriaulyamaeva/fintrack/models"
)

type SeedOptions struct {
	Users               int
	CategoriesPerUser   int
	TransactionsPerUser int
	BudgetsPerUser      int
	GoalsPerUser        int
	Seed                int64
}

// SeededUser is a generated login that can be used against the API.
type SeededUser struct {
	ID       string
	Email    string
	Password string
}

var (
	expenseCategories = []string{"Food", "Transport", "Health", "Home", "Entertainment", "Clothes"}
	incomeCategories  = []string{"Salary", "Freelance", "Gifts"}
)

// GenerateTestData fills the database with fake users and their finances.
// Everything goes through the ledger, so balances match the transactions.
func GenerateTestData(ctx context.Context, db *database.DB, svc *ledger.Service, opts SeedOptions) ([]SeededUser, error) {
	faker := gofakeit.New(opts.Seed)
	users := make([]SeededUser, 0, opts.Users)

	for i := 0; i < opts.Users; i++ {
		password := faker.Password(true, true, true, false, false, 10)
		hash, err := auth.HashPassword(password)
		if err != nil {
			return users, err
		}
		user := &models.User{
			Name:         faker.Name(),
			Email:        fmt.Sprintf("%d.%s", i, faker.Email()),
			PasswordHash: hash,
		}
		if _, err := svc.OpenUser(ctx, user); err != nil {
			return users, fmt.Errorf("error adding user: %w", err)
		}
		users = append(users, SeededUser{ID: user.ID, Email: user.Email, Password: password})

		categories, err := generateCategories(ctx, db, faker, user.ID, opts.CategoriesPerUser)
		if err != nil {
			return users, err
		}
		if err := generateTransactions(ctx, svc, faker, user.ID, categories, opts.TransactionsPerUser); err != nil {
			return users, err
		}
		if err := generateBudgets(ctx, svc, faker, user.ID, categories, opts.BudgetsPerUser); err != nil {
			return users, err
		}
		if err := generateGoals(ctx, svc, faker, user.ID, opts.GoalsPerUser); err != nil {
			return users, err
		}
	}
	return users, nil
}

func generateCategories(ctx context.Context, db *database.DB, faker *gofakeit.Faker, userID string, n int) ([]models.Category, error) {
	categories := make([]models.Category, 0, n)
	for i := 0; i < n; i++ {
		category := models.Category{UserID: userID, Type: randomCategoryType(faker)}
		if category.Type == "income" {
			category.Name = faker.RandomString(incomeCategories)
		} else {
			category.Name = faker.RandomString(expenseCategories)
		}
		if err := db.CreateCategory(ctx, &category); err != nil {
			return nil, fmt.Errorf("error adding category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func randomCategoryType(faker *gofakeit.Faker) string {
	if faker.IntRange(0, 2) == 0 {
		return "income"
	}
	return "expense"
}

func generateTransactions(ctx context.Context, svc *ledger.Service, faker *gofakeit.Faker, userID string, categories []models.Category, n int) error {
	for i := 0; i < n; i++ {
		in := ledger.CreateTransactionInput{
			UserID: userID,
			Type:   string(models.Expense),
			Amount: randomAmount(faker, 1, 300),
			Note:   faker.Sentence(4),
		}
		// The first transaction is always the salary so there is something to spend.
		if i == 0 || faker.IntRange(0, 3) == 0 {
			in.Type = string(models.Income)
			in.Amount = randomAmount(faker, 500, 3000)
		}
		if len(categories) > 0 {
			in.CategoryID = categories[faker.IntRange(0, len(categories)-1)].ID
		}

		_, err := svc.CreateTransaction(ctx, in)
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			slog.Debug("skipping seeded expense", "user_id", userID, "amount", in.Amount)
			continue
		}
		if err != nil {
			return fmt.Errorf("error adding transaction: %w", err)
		}
	}
	return nil
}

func generateBudgets(ctx context.Context, svc *ledger.Service, faker *gofakeit.Faker, userID string, categories []models.Category, n int) error {
	for i := 0; i < n; i++ {
		start := time.Now().UTC().AddDate(0, 0, -faker.IntRange(0, 29))
		in := ledger.BudgetInput{
			UserID:        userID,
			Name:          faker.RandomString(expenseCategories),
			InitialAmount: randomAmount(faker, 100, 1000),
			StartDate:     start,
			EndDate:       start.AddDate(0, 1, 0),
		}
		if len(categories) > 0 {
			in.CategoryID = categories[faker.IntRange(0, len(categories)-1)].ID
		}
		budget, err := svc.CreateBudget(ctx, in)
		if err != nil {
			return fmt.Errorf("error adding budget: %w", err)
		}
		if _, err := svc.ApplyBudgetDelta(ctx, budget.ID, randomAmount(faker, 0, 500), true); err != nil {
			return fmt.Errorf("error adding budget spending: %w", err)
		}
	}
	return nil
}

func generateGoals(ctx context.Context, svc *ledger.Service, faker *gofakeit.Faker, userID string, n int) error {
	for i := 0; i < n; i++ {
		goal, err := svc.CreateGoal(ctx, ledger.GoalInput{
			UserID:       userID,
			Title:        "Save for " + faker.Noun(),
			TargetAmount: randomAmount(faker, 500, 5000),
			Deadline:     time.Now().UTC().AddDate(0, faker.IntRange(1, 12), 0),
		})
		if err != nil {
			return fmt.Errorf("error adding goal: %w", err)
		}
		if _, err := svc.ApplyGoalDelta(ctx, goal.ID, randomAmount(faker, 0, 500), true); err != nil {
			return fmt.Errorf("error adding goal progress: %w", err)
		}
	}
	return nil
}

func randomAmount(faker *gofakeit.Faker, min, max float64) string {
	return decimal.NewFromFloat(faker.Price(min, max)).Round(2).String()
}
