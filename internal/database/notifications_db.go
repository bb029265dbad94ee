package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// CreateNotification inserts the notification. A caller supplied ID makes the
// insert idempotent: delivering the same outbox entry twice keeps one row.
func (q *Queries) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now()
	}

	query := `
		INSERT INTO notifications (id, user_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`
	_, err := q.q.exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Message,
		notification.IsRead,
		notification.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (q *Queries) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, created_at
		FROM notifications
		WHERE id = $1`

	notification := &models.Notification{}
	err := q.q.queryRow(ctx, query, id).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Message,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNoRows)
		}
		return nil, fmt.Errorf("error getting notification: %w", err)
	}
	return notification, nil
}

func (q *Queries) GetNotificationsByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rs, err := q.q.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rs.Close()

	notifications := []models.Notification{}
	for rs.Next() {
		var n models.Notification
		if err := rs.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rs.Err()
}

func (q *Queries) MarkNotificationAsRead(ctx context.Context, id string) error {
	n, err := q.q.exec(ctx, `UPDATE notifications SET is_read = $1 WHERE id = $2`, true, id)
	if err != nil {
		return fmt.Errorf("error marking notification as read: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNoRows)
	}
	return nil
}

func (q *Queries) DeleteNotification(ctx context.Context, id string) error {
	n, err := q.q.exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting notification: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNoRows)
	}
	return nil
}
