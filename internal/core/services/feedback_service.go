package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

type FeedbackService struct {
	repo domain.FeedbackRepository
}

func NewFeedbackService(repo domain.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

func (s *FeedbackService) Submit(ctx context.Context, userID string, rating int, comment string) (*domain.Feedback, error) {
	fb, err := domain.NewFeedback(userID, rating, comment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("feedback service: failed to store feedback: %w", err)
	}

	return fb, nil
}
