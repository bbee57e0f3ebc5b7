package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrTaskTextEmpty    = errors.New("task text cannot be empty")
	ErrTaskTextTooLong  = errors.New("task text is too long (max 500 chars)")
	ErrTaskInvalidUser  = errors.New("invalid user id")
	ErrInvalidPriority  = errors.New("invalid priority (must be low, medium, or high)")
	ErrInvalidDueDate   = errors.New("invalid due date format (must be YYYY-MM-DD)")
	ErrTaskCompleted    = errors.New("cannot update a completed task")
	ErrTaskNotFound     = errors.New("task not found")
	ErrTemplateNotFound = errors.New("template not found")
)

const (
	DateLayout         = "2006-01-02"
	MaxTaskTextLen     = 500
	RecentCompletedMax = 5
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when the client omits the priority.
const DefaultPriority = PriorityMedium

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// rank orders priorities for display, high first.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type Task struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Text        string     `json:"text" db:"text"`
	Completed   bool       `json:"completed" db:"completed"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     *string    `json:"due_date,omitempty" db:"due_date"`
	Penalized   bool       `json:"penalized" db:"penalized"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

func normalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrTaskTextEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxTaskTextLen {
		return "", ErrTaskTextTooLong
	}
	return trimmed, nil
}

func normalizePriority(p Priority) (Priority, error) {
	if p == "" {
		return DefaultPriority, nil
	}
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func normalizeDueDate(dueDate string) (*string, error) {
	dueDate = strings.TrimSpace(dueDate)
	if dueDate == "" {
		return nil, nil
	}
	if _, err := time.Parse(DateLayout, dueDate); err != nil {
		return nil, ErrInvalidDueDate
	}
	return &dueDate, nil
}

func NewTask(userID, text string, priority Priority, dueDate string) (*Task, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrTaskInvalidUser
	}

	cleanText, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	p, err := normalizePriority(priority)
	if err != nil {
		return nil, err
	}

	due, err := normalizeDueDate(dueDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      cleanText,
		Priority:  p,
		DueDate:   due,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update edits text, priority and due date of an active task. An empty due date
// clears it. The penalized flag is left untouched.
func (t *Task) Update(text string, priority Priority, dueDate string) error {
	if t.Completed {
		return ErrTaskCompleted
	}

	cleanText, err := normalizeText(text)
	if err != nil {
		return err
	}

	p, err := normalizePriority(priority)
	if err != nil {
		return err
	}

	due, err := normalizeDueDate(dueDate)
	if err != nil {
		return err
	}

	t.Text = cleanText
	t.Priority = p
	t.DueDate = due
	t.UpdatedAt = time.Now().UTC()

	return nil
}

// Complete marks the task as done. It reports false when the task was already
// completed, in which case nothing changes.
func (t *Task) Complete(now time.Time) bool {
	if t.Completed {
		return false
	}

	completedAt := now.UTC()
	t.Completed = true
	t.CompletedAt = &completedAt
	t.UpdatedAt = completedAt
	return true
}

// IsOverdue reports whether the task should trigger a penalty on the given day.
// Only the calendar date is compared.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.Completed || t.Penalized || t.DueDate == nil {
		return false
	}

	due, err := time.ParseInLocation(DateLayout, *t.DueDate, today.Location())
	if err != nil {
		return false
	}

	return due.Before(StartOfDay(today))
}

// ActiveTasks returns the open tasks ordered high priority first, then by due
// date with undated tasks last.
func ActiveTasks(tasks []*Task) []*Task {
	active := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			active = append(active, t)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.Priority.rank() != b.Priority.rank() {
			return a.Priority.rank() < b.Priority.rank()
		}
		return dueSortKey(a) < dueSortKey(b)
	})

	return active
}

// CompletedTasks returns at most limit completed tasks, keeping the input order.
// A non-positive limit returns all of them.
func CompletedTasks(tasks []*Task, limit int) []*Task {
	done := make([]*Task, 0)
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		done = append(done, t)
		if limit > 0 && len(done) == limit {
			break
		}
	}
	return done
}

func dueSortKey(t *Task) string {
	if t.DueDate == nil {
		return "9999"
	}
	return *t.DueDate
}
