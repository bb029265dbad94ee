package database

import (
	"context"
	"fmt"
	"time"
)

type UserStats struct {
	TotalUsers        int                    `json:"total_users"`
	TotalTransactions int                    `json:"total_transactions"`
	Registrations     []MonthlyRegistrations `json:"registrations"`
}

type MonthlyRegistrations struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// GetUserStats counts users and transactions and groups sign-ups by month,
// oldest month first.
func (q *Queries) GetUserStats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM transactions)`
	if err := q.q.queryRow(ctx, query).Scan(&stats.TotalUsers, &stats.TotalTransactions); err != nil {
		return nil, fmt.Errorf("error fetching user stats: %w", err)
	}

	rs, err := q.q.query(ctx, `SELECT created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("error fetching registrations by month: %w", err)
	}
	defer rs.Close()

	for rs.Next() {
		var created time.Time
		if err := rs.Scan(&created); err != nil {
			return nil, fmt.Errorf("error scanning registration data: %w", err)
		}
		month := created.UTC().Format("2006-01")
		if n := len(stats.Registrations); n > 0 && stats.Registrations[n-1].Month == month {
			stats.Registrations[n-1].Count++
			continue
		}
		stats.Registrations = append(stats.Registrations, MonthlyRegistrations{Month: month, Count: 1})
	}
	return &stats, rs.Err()
}
