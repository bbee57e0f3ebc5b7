package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

var _ domain.TaskRepository = (*CachedTaskRepository)(nil)

// CachedTaskRepository keeps each user's task list in Redis. Every write goes
// to the primary store first and then drops the cached list.
type CachedTaskRepository struct {
	next   domain.TaskRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedTaskRepository(next domain.TaskRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedTaskRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTaskRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("task_cache"),
	}
}

func (r *CachedTaskRepository) cacheKey(userID string) string {
	return fmt.Sprintf("tasks:%s", userID)
}

func (r *CachedTaskRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		r.logger.Warn("failed to invalidate", zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *CachedTaskRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var tasks []*domain.Task
		if err := json.Unmarshal([]byte(val), &tasks); err == nil {
			return tasks, nil
		}

		r.logger.Warn("corrupted cache entry, evicting", zap.String("user_id", userID))
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("redis read error", zap.Error(err))
	}

	tasks, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(tasks); err == nil {
		if setErr := r.cache.Set(ctx, key, data, r.ttl).Err(); setErr != nil {
			r.logger.Warn("redis set error", zap.Error(setErr))
		}
	}

	return tasks, nil
}

func (r *CachedTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.next.Create(ctx, task); err != nil {
		return err
	}
	r.invalidate(ctx, task.UserID)
	return nil
}

func (r *CachedTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if err := r.next.Update(ctx, task); err != nil {
		return err
	}
	r.invalidate(ctx, task.UserID)
	return nil
}

func (r *CachedTaskRepository) MarkPenalized(ctx context.Context, userID string, ids []string) error {
	if err := r.next.MarkPenalized(ctx, userID, ids); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *CachedTaskRepository) Delete(ctx context.Context, id string) error {
	task, err := r.next.GetByID(ctx, id)
	if err == nil && task != nil {
		defer r.invalidate(ctx, task.UserID)
	}

	return r.next.Delete(ctx, id)
}
