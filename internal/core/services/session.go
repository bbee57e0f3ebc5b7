package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

type Session struct {
	Stats          domain.UserStats       `json:"stats"`
	Progress       domain.Progress        `json:"progress"`
	ActiveTasks    []*domain.Task         `json:"active_tasks"`
	CompletedTasks []*domain.Task         `json:"completed_tasks"`
	Templates      []*domain.TaskTemplate `json:"templates"`
	Penalized      int                    `json:"penalized"`
	LevelChange    domain.LevelChange     `json:"level_change"`
}

// Load starts a session: it expires a stale streak, runs the penalty scan and
// returns everything the client renders.
func (s *TrackerService) Load(ctx context.Context, userID string) (*Session, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	stored, err := s.loadStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := domain.ReconcileStreakOnLoad(stored, s.today())
	if stats.Streak != stored.Streak {
		if err := s.saveStats(ctx, stats); err != nil {
			return nil, err
		}
	}

	var (
		tasks     []*domain.Task
		templates []*domain.TaskTemplate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.ListByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("tracker: list tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		templates, err = s.templates.ListByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("tracker: list templates: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tasks, next, count, err := s.applyScan(ctx, userID, tasks, stats)
	if err != nil {
		return nil, err
	}

	if templates == nil {
		templates = []*domain.TaskTemplate{}
	}

	return &Session{
		Stats:          next,
		Progress:       domain.NewProgress(next, s.today()),
		ActiveTasks:    domain.ActiveTasks(tasks),
		CompletedTasks: domain.CompletedTasks(tasks, domain.RecentCompletedMax),
		Templates:      templates,
		Penalized:      count,
		LevelChange:    domain.CompareLevels(stored, next),
	}, nil
}

// ApplyPenalties runs the overdue scan for one user and reports how many tasks
// were penalized.
func (s *TrackerService) ApplyPenalties(ctx context.Context, userID string) (int, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		return 0, err
	}

	_, _, count, err := s.scanLocked(ctx, userID, stats)
	return count, err
}
