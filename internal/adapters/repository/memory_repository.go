package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

// The in-memory repositories back STORAGE_DRIVER=memory and the tests. They
// hand out copies so callers can never mutate stored records in place.

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

type InMemoryTaskRepository struct {
	store map[string]*domain.Task

	mu sync.RWMutex
}

func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{
		store: make(map[string]*domain.Task),
	}
}

func (r *InMemoryTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[task.ID] = cloneTask(task)
	return nil
}

func (r *InMemoryTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *InMemoryTaskRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, t := range r.store {
		if t.UserID == userID {
			tasks = append(tasks, cloneTask(t))
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

func (r *InMemoryTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}

	r.store[task.ID] = cloneTask(task)
	return nil
}

func (r *InMemoryTaskRepository) MarkPenalized(ctx context.Context, userID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if t, ok := r.store[id]; ok && t.UserID == userID {
			t.Penalized = true
		}
	}
	return nil
}

func (r *InMemoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrTaskNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryStatsRepository struct {
	store map[string]domain.UserStats

	mu sync.RWMutex
}

func NewInMemoryStatsRepository() *InMemoryStatsRepository {
	return &InMemoryStatsRepository{
		store: make(map[string]domain.UserStats),
	}
}

func (r *InMemoryStatsRepository) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrStatsNotFound
	}
	return &stats, nil
}

func (r *InMemoryStatsRepository) Save(ctx context.Context, stats *domain.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[stats.UserID] = *stats
	return nil
}

func (r *InMemoryStatsRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.store))
	for id := range r.store {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type InMemoryTemplateRepository struct {
	store map[string]*domain.TaskTemplate

	mu sync.RWMutex
}

func NewInMemoryTemplateRepository() *InMemoryTemplateRepository {
	return &InMemoryTemplateRepository{
		store: make(map[string]*domain.TaskTemplate),
	}
}

func (r *InMemoryTemplateRepository) Create(ctx context.Context, template *domain.TaskTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.store {
		if t.UserID == template.UserID && t.Text == template.Text {
			return domain.ErrTemplateExists
		}
	}

	clone := *template
	r.store[template.ID] = &clone
	return nil
}

func (r *InMemoryTemplateRepository) GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *InMemoryTemplateRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.TaskTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]*domain.TaskTemplate, 0)
	for _, t := range r.store {
		if t.UserID == userID {
			clone := *t
			templates = append(templates, &clone)
		}
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})

	return templates, nil
}

func (r *InMemoryTemplateRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrTemplateNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryFeedbackRepository struct {
	items []domain.Feedback

	mu sync.Mutex
}

func NewInMemoryFeedbackRepository() *InMemoryFeedbackRepository {
	return &InMemoryFeedbackRepository{}
}

func (r *InMemoryFeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, *feedback)
	return nil
}

// All returns the stored feedback in submission order.
func (r *InMemoryFeedbackRepository) All() []domain.Feedback {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Feedback, len(r.items))
	copy(out, r.items)
	return out
}

type InMemoryUserRepository struct {
	byID    map[string]*domain.User
	byEmail map[string]string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailAlreadyExists
	}

	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}
