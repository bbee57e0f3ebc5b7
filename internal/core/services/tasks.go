package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

type CreateTaskInput struct {
	UserID   string
	Text     string
	Priority domain.Priority
	DueDate  string
}

// UpdateTaskInput leaves a field unchanged when it is nil. A non-nil empty
// DueDate clears the due date.
type UpdateTaskInput struct {
	ID       string
	UserID   string
	Text     *string
	Priority *domain.Priority
	DueDate  *string
}

type TaskList struct {
	Active    []*domain.Task `json:"active"`
	Completed []*domain.Task `json:"completed"`
}

// getOwnedTask hides tasks of other users behind ErrTaskNotFound.
func (s *TrackerService) getOwnedTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("tracker: get task: %w", err)
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *TrackerService) CreateTask(ctx context.Context, input CreateTaskInput) (*Outcome, error) {
	task, err := domain.NewTask(input.UserID, input.Text, input.Priority, input.DueDate)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(input.UserID)
	defer unlock()

	stats, err := s.loadStats(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("tracker: create task: %w", err)
	}

	out := s.outcome(stats, stats, task)
	if err := s.afterTaskChange(ctx, input.UserID, stats, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TrackerService) UpdateTask(ctx context.Context, input UpdateTaskInput) (*Outcome, error) {
	unlock := s.locks.lock(input.UserID)
	defer unlock()

	task, err := s.getOwnedTask(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	text := task.Text
	if input.Text != nil {
		text = *input.Text
	}
	priority := task.Priority
	if input.Priority != nil {
		priority = *input.Priority
	}
	dueDate := ""
	if task.DueDate != nil {
		dueDate = *task.DueDate
	}
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	if err := task.Update(text, priority, dueDate); err != nil {
		return nil, err
	}

	stats, err := s.loadStats(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("tracker: update task: %w", err)
	}

	out := s.outcome(stats, stats, task)
	if err := s.afterTaskChange(ctx, input.UserID, stats, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteTask awards XP and advances the streak. Completing a task twice is
// a no-op that awards nothing.
func (s *TrackerService) CompleteTask(ctx context.Context, userID, taskID string) (*Outcome, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	before, err := s.loadStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.today()
	if !task.Complete(now) {
		return s.outcome(before, before, task), nil
	}

	// Stats go first so a failed save leaves the task open for a retry.
	after := domain.CompleteTask(before, task.Priority, now)
	if err := s.saveStats(ctx, after); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if rbErr := s.saveStats(ctx, before); rbErr != nil {
			s.logger.Error("failed to roll back stats",
				zap.String("user_id", userID),
				zap.Error(rbErr),
			)
		}
		return nil, fmt.Errorf("tracker: complete task: %w", err)
	}

	out := s.outcome(before, after, task)
	out.XPGained = domain.Reward(task.Priority, before.Streak)

	if out.LevelChange == domain.LevelUp {
		s.logger.Info("level up",
			zap.String("user_id", userID),
			zap.Int("level", after.Level),
		)
	}

	if err := s.afterTaskChange(ctx, userID, before, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TrackerService) DeleteTask(ctx context.Context, userID, taskID string) (*Outcome, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	if _, err := s.getOwnedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("tracker: delete task: %w", err)
	}

	out := s.outcome(stats, stats, nil)
	if err := s.afterTaskChange(ctx, userID, stats, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTasks returns the active tasks in display order and every completed
// task, newest first.
func (s *TrackerService) ListTasks(ctx context.Context, userID string) (*TaskList, error) {
	tasks, err := s.tasks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tracker: list tasks: %w", err)
	}

	return &TaskList{
		Active:    domain.ActiveTasks(tasks),
		Completed: domain.CompletedTasks(tasks, 0),
	}, nil
}
