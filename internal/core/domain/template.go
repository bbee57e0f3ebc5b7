package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTemplateExists = errors.New("a template with this text already exists")
)

type TaskTemplate struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Priority  Priority  `json:"priority" db:"priority"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewTaskTemplate(userID, text string, priority Priority) (*TaskTemplate, error) {
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

	return &TaskTemplate{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      cleanText,
		Priority:  p,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// TemplateFromTask snapshots a task's text and priority.
func TemplateFromTask(t *Task) (*TaskTemplate, error) {
	return NewTaskTemplate(t.UserID, t.Text, t.Priority)
}

// DefaultTemplates is the preset list a new user starts with. Creation times are
// staggered so that newest-first ordering keeps the presets in this order.
func DefaultTemplates(userID string) []*TaskTemplate {
	presets := []struct {
		text     string
		priority Priority
	}{
		{"Daily Meditation", PriorityLow},
		{"Deep Work Session", PriorityHigh},
		{"Reflective Journaling", PriorityMedium},
	}

	now := time.Now().UTC()
	templates := make([]*TaskTemplate, 0, len(presets))
	for i, p := range presets {
		templates = append(templates, &TaskTemplate{
			ID:        uuid.NewString(),
			UserID:    userID,
			Text:      p.text,
			Priority:  p.priority,
			CreatedAt: now.Add(-time.Duration(i) * time.Millisecond),
		})
	}
	return templates
}

// HasTemplateText reports whether text is already used by one of the templates.
func HasTemplateText(templates []*TaskTemplate, text string) bool {
	for _, t := range templates {
		if t.Text == text {
			return true
		}
	}
	return false
}
