package domain

import (
	"context"
)

type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *Task) error

	// GetByID retrieves a single task by its ID.
	GetByID(ctx context.Context, id string) (*Task, error)

	// ListByUserID returns the user's tasks, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*Task, error)

	// Update overwrites an existing task. Last write wins.
	Update(ctx context.Context, task *Task) error

	// MarkPenalized sets the penalized flag on the given tasks of a user.
	// Already penalized tasks are left as they are.
	MarkPenalized(ctx context.Context, userID string, ids []string) error

	// Delete permanently removes a task.
	Delete(ctx context.Context, id string) error
}

type StatsRepository interface {
	// Get returns ErrStatsNotFound when the user has never been initialized.
	Get(ctx context.Context, userID string) (*UserStats, error)

	// Save inserts or replaces the user's stats record.
	Save(ctx context.Context, stats *UserStats) error

	// ListUserIDs returns every user with a stats record.
	ListUserIDs(ctx context.Context) ([]string, error)
}

type TemplateRepository interface {
	// Create returns ErrTemplateExists when the user already has a template
	// with the same text.
	Create(ctx context.Context, template *TaskTemplate) error

	GetByID(ctx context.Context, id string) (*TaskTemplate, error)

	// ListByUserID returns the user's templates, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*TaskTemplate, error)

	Delete(ctx context.Context, id string) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *Feedback) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
