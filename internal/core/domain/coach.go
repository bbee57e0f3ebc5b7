package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrCoachDisabled   = errors.New("coach provider not configured")
	ErrInvalidChatRole = errors.New("invalid chat role (must be user or model)")
)

const (
	RoleUser  = "user"
	RoleModel = "model"

	CoachFallbackMessage = "I apologize, but my connection to the ether is weak. Let us try again in a moment."
)

type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type CoachRequest struct {
	SystemInstruction string
	History           []ChatMessage
	Message           string
}

// Coach is an external conversational model. Stream must call emit with every
// piece of text as it arrives and stop when ctx is cancelled.
type Coach interface {
	Stream(ctx context.Context, req CoachRequest, emit func(chunk string) error) error
}

func CoachGreeting(level int) string {
	return fmt.Sprintf("Greetings, Seeker. I am your Zen Coach. Your focus is currently Level %d. How can I assist your journey today?", level)
}

func CoachInstruction(stats UserStats) string {
	return fmt.Sprintf(`You are the "Zen Coach" for a productivity app called Zen Producer.
The user is at Level %d with a streak of %d days.
Your tone is calm, wise, minimalist, and encouraging.
Use metaphors related to nature, flow, and mastery.
Keep responses concise (max 2-3 paragraphs).
Help users prioritize tasks, overcome procrastination, or find focus.
If they seem overwhelmed, suggest taking a breath or simplifying their list.`, stats.Level, stats.Streak)
}
