// Package reports renders a user's transactions for a period as an Excel
// workbook or a PDF statement.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Statement is everything a rendered report shows.
type Statement struct {
	UserName     string
	From, To     time.Time
	Transactions []models.Transaction
	Categories   map[string]string
	Summary      *models.Summary
}

func (s *Statement) category(id string) string {
	if name, ok := s.Categories[id]; ok {
		return name
	}
	if id == "" {
		return "Uncategorized"
	}
	return id
}

func (s *Statement) period() string {
	return s.From.Format("2006-01-02") + " - " + s.To.Format("2006-01-02")
}

type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Service struct {
	db *database.DB
}

func NewService(db *database.DB) *Service {
	return &Service{db: db}
}

// Generate renders the report and records its metadata row.
func (s *Service) Generate(ctx context.Context, userID, format string, from, to time.Time) (*Export, error) {
	if format != models.ReportExcel && format != models.ReportPDF {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	statement, err := s.statement(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	export := &Export{}
	switch format {
	case models.ReportExcel:
		export.Data, err = BuildExcel(statement)
		export.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case models.ReportPDF:
		export.Data, err = BuildPDF(statement)
		export.ContentType = "application/pdf"
	}
	if err != nil {
		return nil, fmt.Errorf("error rendering %s report: %w", format, err)
	}
	export.Filename = fmt.Sprintf("statement_%s_%s.%s", from.Format("20060102"), to.Format("20060102"), format)

	report := &models.Report{UserID: userID, Format: format, PeriodStart: from, PeriodEnd: to}
	if err := s.db.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return export, nil
}

func (s *Service) statement(ctx context.Context, userID string, from, to time.Time) (*Statement, error) {
	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.db.GetTransactionsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	summary, err := s.db.GetSummary(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.db.GetCategoriesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return &Statement{
		UserName:     user.Name,
		From:         from,
		To:           to,
		Transactions: transactions,
		Categories:   names,
		Summary:      summary,
	}, nil
}
