package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
	"github.com/xuri/excelize/v2"
)

func seed(t *testing.T) (*database.DB, *models.User) {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	user := &models.User{Name: "Ivan", Email: "ivan@example.com", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, user))
	require.NoError(t, db.CreateAccount(ctx, &models.Account{UserID: user.ID, Balance: decimal.RequireFromString("120")}))

	food := &models.Category{UserID: user.ID, Name: "Food", Type: "expense"}
	require.NoError(t, db.CreateCategory(ctx, food))

	for _, tx := range []*models.Transaction{
		{UserID: user.ID, Type: models.Income, Amount: decimal.RequireFromString("200"), Note: "salary"},
		{UserID: user.ID, CategoryID: food.ID, Type: models.Expense, Amount: decimal.RequireFromString("80"), Note: "groceries"},
	} {
		require.NoError(t, db.CreateTransaction(ctx, tx))
	}
	return db, user
}

func TestGenerateExcel(t *testing.T) {
	db, user := seed(t)
	from, to := time.Now().Add(-time.Hour), time.Now().Add(time.Hour)

	export, err := NewService(db).Generate(context.Background(), user.ID, models.ReportExcel, from, to)
	require.NoError(t, err)
	assert.Contains(t, export.Filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(transactionsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)

	rows, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	income, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "200", income)

	category, err := f.GetCellValue(summarySheet, "A8")
	require.NoError(t, err)
	assert.Equal(t, "Food", category)

	reports, err := db.GetReportsByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, models.ReportExcel, reports[0].Format)
}

func TestGeneratePDF(t *testing.T) {
	db, user := seed(t)

	export, err := NewService(db).Generate(context.Background(), user.ID, models.ReportPDF, time.Now().AddDate(0, -1, 0), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", export.ContentType)
	assert.True(t, bytes.HasPrefix(export.Data, []byte("%PDF")))
}

func TestGenerateUnknownFormat(t *testing.T) {
	db, user := seed(t)

	_, err := NewService(db).Generate(context.Background(), user.ID, "docx", time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrUnknownFormat)

	reports, err := db.GetReportsByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
