package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

type PenaltyScanner interface {
	ApplyPenalties(ctx context.Context, userID string) (int, error)
}

type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

type PenaltyJob struct {
	UserID string
}

// PenaltyWorker penalizes tasks that become overdue while nobody is looking:
// whenever the calendar day changes it queues a scan for every known user.
type PenaltyWorker struct {
	scanner  PenaltyScanner
	users    UserLister
	jobs     chan PenaltyJob
	interval time.Duration
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	lastDay string
}

func NewPenaltyWorker(scanner PenaltyScanner, users UserLister, queueSize int, interval time.Duration, loc *time.Location, logger *zap.Logger) *PenaltyWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PenaltyWorker{
		scanner:  scanner,
		users:    users,
		jobs:     make(chan PenaltyJob, queueSize),
		interval: interval,
		loc:      loc,
		now:      time.Now,
		logger:   logger.Named("penalty_worker"),
	}
}

func (w *PenaltyWorker) WithClock(now func() time.Time) *PenaltyWorker {
	w.now = now
	return w
}

// Start runs the job loop and the rollover ticker until ctx is cancelled.
// The first tick scans every user.
func (w *PenaltyWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("penalty worker started", zap.Duration("interval", w.interval))
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("penalty worker shutting down")
				return
			}
		}
	}()

	go func() {
		w.checkRollover(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.checkRollover(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Enqueue schedules a scan for one user. It never blocks: when the queue is
// full the job is dropped and false is returned.
func (w *PenaltyWorker) Enqueue(userID string) bool {
	select {
	case w.jobs <- PenaltyJob{UserID: userID}:
		return true
	default:
		w.logger.Warn("penalty queue full, dropping job", zap.String("user_id", userID))
		return false
	}
}

// checkRollover reports whether the day changed since the last check and, if
// so, queues every user. Users that do not fit in the queue are skipped until
// their next session load.
func (w *PenaltyWorker) checkRollover(ctx context.Context) bool {
	day := w.now().In(w.loc).Format(domain.DateLayout)

	w.mu.Lock()
	changed := day != w.lastDay
	w.lastDay = day
	w.mu.Unlock()

	if !changed {
		return false
	}

	ids, err := w.users.ListUserIDs(ctx)
	if err != nil {
		w.logger.Error("failed to list users for rollover scan", zap.Error(err))
		return true
	}

	w.logger.Info("day rollover, scanning users", zap.String("day", day), zap.Int("users", len(ids)))

	dropped := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return true
		}
		if !w.Enqueue(id) {
			dropped++
		}
	}
	if dropped > 0 {
		w.logger.Warn("rollover scan incomplete", zap.String("day", day), zap.Int("dropped", dropped))
	}
	return true
}

func (w *PenaltyWorker) processJob(ctx context.Context, job PenaltyJob) {
	count, err := w.scanner.ApplyPenalties(ctx, job.UserID)
	if err != nil {
		w.logger.Error("penalty scan failed", zap.String("user_id", job.UserID), zap.Error(err))
		return
	}
	if count > 0 {
		w.logger.Info("penalties applied", zap.String("user_id", job.UserID), zap.Int("count", count))
	}
}
