package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text VARCHAR(500) NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			priority VARCHAR(10) NOT NULL DEFAULT 'medium',
			due_date VARCHAR(10),
			penalized BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT tasks_priority_check CHECK (priority IN ('low', 'medium', 'high'))
		);`,
		`CREATE TABLE IF NOT EXISTS user_stats (
			user_id VARCHAR(36) PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
			xp INTEGER NOT NULL DEFAULT 0 CHECK (xp >= 0),
			total_tasks_completed INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			last_completed_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS task_templates (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text VARCHAR(500) NOT NULL,
			priority VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT task_templates_user_text_key UNIQUE (user_id, text)
		);`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks(user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_open_due ON tasks(user_id, due_date) WHERE completed = FALSE AND penalized = FALSE;`,
		`CREATE INDEX IF NOT EXISTS idx_templates_user_created ON task_templates(user_id, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
