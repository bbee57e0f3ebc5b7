package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

type PostgresTemplateRepository struct {
	db *sqlx.DB
}

func NewPostgresTemplateRepository(db *sqlx.DB) *PostgresTemplateRepository {
	return &PostgresTemplateRepository{db: db}
}

func (r *PostgresTemplateRepository) Create(ctx context.Context, t *domain.TaskTemplate) error {
	query := `
		INSERT INTO task_templates (id, user_id, text, priority, created_at)
		VALUES (:id, :user_id, :text, :priority, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTemplateExists
		}
		return fmt.Errorf("repository: create template failed: %w", err)
	}
	return nil
}

func (r *PostgresTemplateRepository) GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	var t domain.TaskTemplate
	query := `SELECT id, user_id, text, priority, created_at FROM task_templates WHERE id = $1`

	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("repository: get template failed: %w", err)
	}
	return &t, nil
}

func (r *PostgresTemplateRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.TaskTemplate, error) {
	templates := []*domain.TaskTemplate{}
	query := `
		SELECT id, user_id, text, priority, created_at
		FROM task_templates WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &templates, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list templates failed: %w", err)
	}
	return templates, nil
}

func (r *PostgresTemplateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete template failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}
