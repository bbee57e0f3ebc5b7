package coach

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

const DefaultGeminiModel = "gemini-3-flash-preview"

var _ domain.Coach = (*GeminiCoach)(nil)

type GeminiCoach struct {
	client *genai.Client
	model  string
}

func NewGeminiCoach(ctx context.Context, apiKey, baseURL, model string) (*GeminiCoach, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiCoach{client: client, model: model}, nil
}

// geminiContents maps the chat history plus the new message onto genai contents.
func geminiContents(req domain.CoachRequest) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		var role genai.Role = genai.RoleUser
		if m.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))
}

func (g *GeminiCoach) Stream(ctx context.Context, req domain.CoachRequest, emit func(chunk string) error) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
	}

	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, geminiContents(req), config) {
		if err != nil {
			return fmt.Errorf("gemini stream failed: %w", err)
		}
		if text := resp.Text(); text != "" {
			if err := emit(text); err != nil {
				return err
			}
		}
	}

	return ctx.Err()
}
