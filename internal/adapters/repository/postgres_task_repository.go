package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

type PostgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

const taskColumns = `id, user_id, text, completed, priority, due_date, penalized, created_at, completed_at, updated_at`

func (r *PostgresTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (:id, :user_id, :text, :completed, :priority, :due_date, :penalized, :created_at, :completed_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("repository: create task failed: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("repository: get task failed: %w", err)
	}
	return &t, nil
}

func (r *PostgresTaskRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks := []*domain.Task{}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list tasks failed: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, t *domain.Task) error {
	query := `
		UPDATE tasks SET
			text = :text,
			completed = :completed,
			priority = :priority,
			due_date = :due_date,
			penalized = :penalized,
			completed_at = :completed_at,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("repository: update task failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// MarkPenalized only flips unpenalized rows so a task is never penalized twice.
func (r *PostgresTaskRepository) MarkPenalized(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		UPDATE tasks SET penalized = TRUE, updated_at = NOW()
		WHERE user_id = ? AND penalized = FALSE AND id IN (?)`, userID, ids)
	if err != nil {
		return fmt.Errorf("repository: build penalize query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("repository: mark penalized failed: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete task failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
