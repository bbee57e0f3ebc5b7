package coach

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/comitanigiacomo/zen-producer/internal/config"
	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

// New builds the provider selected in cfg. It returns a nil Coach when no
// provider is configured.
func New(ctx context.Context, cfg *config.Config) (domain.Coach, error) {
	switch cfg.CoachProvider {
	case config.CoachGemini:
		return NewGeminiCoach(ctx, cfg.CoachAPIKey, cfg.CoachBaseURL, cfg.CoachModel)
	case config.CoachOpenAI:
		return NewOpenAICoach(cfg.CoachAPIKey, cfg.CoachBaseURL, cfg.CoachModel, &http.Client{Timeout: cfg.CoachTimeout + 5*time.Second})
	case config.CoachNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("coach: unsupported provider %q", cfg.CoachProvider)
	}
}
