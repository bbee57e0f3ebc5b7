package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong = errors.New("comment is too long (max 1000 chars)")
)

const MaxFeedbackComment = 1000

type Feedback struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewFeedback(userID string, rating int, comment string) (*Feedback, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrTaskInvalidUser
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxFeedbackComment {
		return nil, ErrCommentTooLong
	}

	return &Feedback{
		ID:        uuid.NewString(),
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}, nil
}
