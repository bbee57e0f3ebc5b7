package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

type PostgresFeedbackRepository struct {
	db *sqlx.DB
}

func NewPostgresFeedbackRepository(db *sqlx.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

func (r *PostgresFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, user_id, rating, comment, created_at)
		VALUES (:id, :user_id, :rating, :comment, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fb); err != nil {
		return fmt.Errorf("repository: create feedback failed: %w", err)
	}
	return nil
}
