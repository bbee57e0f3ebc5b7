package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

// TrackerService owns every read-modify-write of a user's tasks, stats and
// templates. Events for the same user run one at a time.
type TrackerService struct {
	tasks     domain.TaskRepository
	stats     domain.StatsRepository
	templates domain.TemplateRepository

	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
	locks  *userLocks
}

func NewTrackerService(
	tasks domain.TaskRepository,
	stats domain.StatsRepository,
	templates domain.TemplateRepository,
	loc *time.Location,
	logger *zap.Logger,
) *TrackerService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TrackerService{
		tasks:     tasks,
		stats:     stats,
		templates: templates,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
		locks:     newUserLocks(),
	}
}

// WithClock replaces the time source. Used by tests and the rollover worker.
func (s *TrackerService) WithClock(now func() time.Time) *TrackerService {
	s.now = now
	return s
}

// Outcome is returned by every operation that may move XP or levels.
type Outcome struct {
	Task        *domain.Task       `json:"task,omitempty"`
	Stats       domain.UserStats   `json:"stats"`
	Progress    domain.Progress    `json:"progress"`
	XPGained    int                `json:"xp_gained"`
	Penalized   int                `json:"penalized"`
	LevelChange domain.LevelChange `json:"level_change"`
}

func (s *TrackerService) today() time.Time {
	return s.now().In(s.loc)
}

func (s *TrackerService) outcome(before, after domain.UserStats, task *domain.Task) *Outcome {
	return &Outcome{
		Task:        task,
		Stats:       after,
		Progress:    domain.NewProgress(after, s.today()),
		LevelChange: domain.CompareLevels(before, after),
	}
}

// loadStats returns the stored stats. A user without a record is initialized
// with default stats and the preset templates.
func (s *TrackerService) loadStats(ctx context.Context, userID string) (domain.UserStats, error) {
	stats, err := s.stats.Get(ctx, userID)
	if err == nil {
		return *stats, nil
	}
	if !errors.Is(err, domain.ErrStatsNotFound) {
		return domain.UserStats{}, fmt.Errorf("tracker: load stats: %w", err)
	}

	fresh := domain.DefaultStats(userID)
	fresh.UpdatedAt = s.now().UTC()
	if err := s.stats.Save(ctx, &fresh); err != nil {
		return domain.UserStats{}, fmt.Errorf("tracker: init stats: %w", err)
	}

	for _, tpl := range domain.DefaultTemplates(userID) {
		if err := s.templates.Create(ctx, tpl); err != nil && !errors.Is(err, domain.ErrTemplateExists) {
			return domain.UserStats{}, fmt.Errorf("tracker: seed templates: %w", err)
		}
	}

	s.logger.Info("initialized user session", zap.String("user_id", userID))
	return fresh, nil
}

func (s *TrackerService) saveStats(ctx context.Context, stats domain.UserStats) error {
	stats.UpdatedAt = s.now().UTC()
	if err := s.stats.Save(ctx, &stats); err != nil {
		return fmt.Errorf("tracker: save stats: %w", err)
	}
	return nil
}

// scanLocked runs the penalty scan over the user's stored tasks and persists
// the result. The caller must hold the user's lock.
func (s *TrackerService) scanLocked(ctx context.Context, userID string, stats domain.UserStats) ([]*domain.Task, domain.UserStats, int, error) {
	tasks, err := s.tasks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, stats, 0, fmt.Errorf("tracker: list tasks: %w", err)
	}

	return s.applyScan(ctx, userID, tasks, stats)
}

func (s *TrackerService) applyScan(ctx context.Context, userID string, tasks []*domain.Task, stats domain.UserStats) ([]*domain.Task, domain.UserStats, int, error) {
	scanned, next, count := domain.ScanOverdue(tasks, stats, s.today())
	if count == 0 {
		return tasks, stats, 0, nil
	}

	ids := domain.PenalizedIDs(tasks, scanned)
	if err := s.tasks.MarkPenalized(ctx, userID, ids); err != nil {
		return nil, stats, 0, fmt.Errorf("tracker: mark penalized: %w", err)
	}
	if err := s.saveStats(ctx, next); err != nil {
		return nil, stats, 0, err
	}

	s.logger.Info("overdue tasks penalized",
		zap.String("user_id", userID),
		zap.Int("count", count),
		zap.Int("level", next.Level),
	)

	return scanned, next, count, nil
}

// afterTaskChange runs the scan that follows every change to the task list
// and folds its result into out.
func (s *TrackerService) afterTaskChange(ctx context.Context, userID string, before domain.UserStats, out *Outcome) error {
	tasks, stats, count, err := s.scanLocked(ctx, userID, out.Stats)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	if out.Task != nil {
		for _, t := range tasks {
			if t.ID == out.Task.ID {
				out.Task = t
				break
			}
		}
	}

	out.Stats = stats
	out.Progress = domain.NewProgress(stats, s.today())
	out.Penalized = count
	out.LevelChange = domain.CompareLevels(before, stats)
	return nil
}

// StatsView is the read model behind GET /stats.
type StatsView struct {
	Stats    domain.UserStats `json:"stats"`
	Progress domain.Progress  `json:"progress"`
}

// Stats returns the user's stats as they would display right now, with an
// expired streak already shown as 0.
func (s *TrackerService) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	return domain.ReconcileStreakOnLoad(stats, s.today()), nil
}

func (s *TrackerService) StatsView(ctx context.Context, userID string) (*StatsView, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StatsView{Stats: stats, Progress: domain.NewProgress(stats, s.today())}, nil
}
