package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func (q *Queries) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.CreatedAt = now()

	query := `
		INSERT INTO categories (id, user_id, name, type, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := q.q.exec(ctx, query, category.ID, category.UserID, category.Name, category.Type, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating category: %w", err)
	}
	return nil
}

func (q *Queries) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE id = $1`

	category := &models.Category{}
	err := q.q.queryRow(ctx, query, id).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Type,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", id, ErrNoRows)
		}
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return category, nil
}

func (q *Queries) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2
		WHERE id = $3`

	n, err := q.q.exec(ctx, query, category.Name, category.Type, category.ID)
	if err != nil {
		return fmt.Errorf("error updating category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %s: %w", category.ID, ErrNoRows)
	}
	return nil
}

func (q *Queries) DeleteCategory(ctx context.Context, id string) error {
	n, err := q.q.exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNoRows)
	}
	return nil
}

func (q *Queries) GetCategoriesByUserID(ctx context.Context, userID string) ([]models.Category, error) {
	query := `SELECT id, user_id, name, type, created_at FROM categories WHERE user_id = $1 ORDER BY name`
	rs, err := q.q.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rs.Close()

	categories := []models.Category{}
	for rs.Next() {
		var category models.Category
		if err := rs.Scan(&category.ID, &category.UserID, &category.Name, &category.Type, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rs.Err()
}
