package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func (q *Queries) CreateReport(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	report.GeneratedAt = now()

	query := `
		INSERT INTO reports (id, user_id, format, period_start, period_end, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.q.exec(ctx, query,
		report.ID,
		report.UserID,
		report.Format,
		report.PeriodStart.UTC(),
		report.PeriodEnd.UTC(),
		report.GeneratedAt)
	if err != nil {
		return fmt.Errorf("error creating report: %w", err)
	}
	return nil
}

func (q *Queries) GetReportsByUserID(ctx context.Context, userID string) ([]models.Report, error) {
	query := `
		SELECT id, user_id, format, period_start, period_end, generated_at
		FROM reports
		WHERE user_id = $1
		ORDER BY generated_at DESC`
	rs, err := q.q.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	defer rs.Close()

	reports := []models.Report{}
	for rs.Next() {
		var r models.Report
		if err := rs.Scan(&r.ID, &r.UserID, &r.Format, &r.PeriodStart, &r.PeriodEnd, &r.GeneratedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rs.Err()
}
