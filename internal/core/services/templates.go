package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

func (s *TrackerService) getOwnedTemplate(ctx context.Context, userID, templateID string) (*domain.TaskTemplate, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("tracker: get template: %w", err)
	}
	if tpl.UserID != userID {
		return nil, domain.ErrTemplateNotFound
	}
	return tpl, nil
}

// ListTemplates returns the user's templates, newest first. The preset list
// is seeded on first use.
func (s *TrackerService) ListTemplates(ctx context.Context, userID string) ([]*domain.TaskTemplate, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	if _, err := s.loadStats(ctx, userID); err != nil {
		return nil, err
	}

	templates, err := s.templates.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tracker: list templates: %w", err)
	}
	if templates == nil {
		templates = []*domain.TaskTemplate{}
	}
	return templates, nil
}

// SaveTaskAsTemplate stores the task's text and priority as a reusable
// template. Texts are unique per user.
func (s *TrackerService) SaveTaskAsTemplate(ctx context.Context, userID, taskID string) (*domain.TaskTemplate, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	if _, err := s.loadStats(ctx, userID); err != nil {
		return nil, err
	}

	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	existing, err := s.templates.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tracker: list templates: %w", err)
	}
	if domain.HasTemplateText(existing, task.Text) {
		return nil, domain.ErrTemplateExists
	}

	tpl, err := domain.TemplateFromTask(task)
	if err != nil {
		return nil, err
	}

	if err := s.templates.Create(ctx, tpl); err != nil {
		if errors.Is(err, domain.ErrTemplateExists) {
			return nil, err
		}
		return nil, fmt.Errorf("tracker: create template: %w", err)
	}

	return tpl, nil
}

// UseTemplate creates a new undated task from a template.
func (s *TrackerService) UseTemplate(ctx context.Context, userID, templateID string) (*Outcome, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	tpl, err := s.getOwnedTemplate(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(userID, tpl.Text, tpl.Priority, "")
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("tracker: create task: %w", err)
	}

	out := s.outcome(stats, stats, task)
	if err := s.afterTaskChange(ctx, userID, stats, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TrackerService) RemoveTemplate(ctx context.Context, userID, templateID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	if _, err := s.getOwnedTemplate(ctx, userID, templateID); err != nil {
		return err
	}

	if err := s.templates.Delete(ctx, templateID); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return err
		}
		return fmt.Errorf("tracker: delete template: %w", err)
	}
	return nil
}
