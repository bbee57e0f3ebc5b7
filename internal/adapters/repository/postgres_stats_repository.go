package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

type PostgresStatsRepository struct {
	db *sqlx.DB
}

func NewPostgresStatsRepository(db *sqlx.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	var s domain.UserStats
	query := `
		SELECT user_id, level, xp, total_tasks_completed, streak, last_completed_at, updated_at
		FROM user_stats WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &s, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("repository: get stats failed: %w", err)
	}
	return &s, nil
}

func (r *PostgresStatsRepository) Save(ctx context.Context, s *domain.UserStats) error {
	query := `
		INSERT INTO user_stats (user_id, level, xp, total_tasks_completed, streak, last_completed_at, updated_at)
		VALUES (:user_id, :level, :xp, :total_tasks_completed, :streak, :last_completed_at, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			level = EXCLUDED.level,
			xp = EXCLUDED.xp,
			total_tasks_completed = EXCLUDED.total_tasks_completed,
			streak = EXCLUDED.streak,
			last_completed_at = EXCLUDED.last_completed_at,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("repository: save stats failed: %w", err)
	}
	return nil
}

func (r *PostgresStatsRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM user_stats ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("repository: list users failed: %w", err)
	}
	return ids, nil
}
