package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

// StatsProvider supplies the stats the coach personalizes its answers with.
type StatsProvider interface {
	Stats(ctx context.Context, userID string) (domain.UserStats, error)
}

type CoachService struct {
	coach   domain.Coach
	stats   StatsProvider
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoachService accepts a nil coach; every question then gets the fallback
// answer.
func NewCoachService(coach domain.Coach, stats StatsProvider, timeout time.Duration, logger *zap.Logger) *CoachService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoachService{
		coach:   coach,
		stats:   stats,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *CoachService) Greeting(ctx context.Context, userID string) (string, error) {
	stats, err := s.stats.Stats(ctx, userID)
	if err != nil {
		return "", err
	}
	return domain.CoachGreeting(stats.Level), nil
}

// AskInput carries one user turn plus the conversation so far.
type AskInput struct {
	UserID  string
	History []domain.ChatMessage
	Message string
}

// Ask streams the coach's answer through emit. Provider failures are never
// returned: the fallback message is emitted through fallback instead, and the
// result reports that it was used. Only invalid input and stats lookup
// failures produce an error.
func (s *CoachService) Ask(ctx context.Context, input AskInput, emit func(chunk string) error, fallback func(message string) error) (bool, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return false, domain.ErrEmptyMessage
	}
	for _, m := range input.History {
		if m.Role != domain.RoleUser && m.Role != domain.RoleModel {
			return false, domain.ErrInvalidChatRole
		}
	}

	stats, err := s.stats.Stats(ctx, input.UserID)
	if err != nil {
		return false, err
	}

	if s.coach == nil {
		return true, fallback(domain.CoachFallbackMessage)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req := domain.CoachRequest{
		SystemInstruction: domain.CoachInstruction(stats),
		History:           input.History,
		Message:           message,
	}

	if err := s.coach.Stream(ctx, req, emit); err != nil {
		s.logger.Warn("coach stream failed",
			zap.String("user_id", input.UserID),
			zap.Error(err),
		)
		return true, fallback(domain.CoachFallbackMessage)
	}

	return false, nil
}
