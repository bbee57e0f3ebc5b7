package coach

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
)

const (
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

var _ domain.Coach = (*OpenAICoach)(nil)

type OpenAICoach struct {
	client openai.Client
	model  string
}

// NewOpenAICoach also works against any OpenAI-compatible endpoint through
// baseURL. Timeouts come from the request context.
func NewOpenAICoach(apiKey, baseURL, model string, httpClient *http.Client) (*OpenAICoach, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAICoach{client: client, model: model}, nil
}

func openAIMessages(req domain.CoachRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	for _, m := range req.History {
		if m.Role == domain.RoleModel {
			messages = append(messages, openai.AssistantMessage(m.Text))
		} else {
			messages = append(messages, openai.UserMessage(m.Text))
		}
	}
	return append(messages, openai.UserMessage(req.Message))
}

func (o *OpenAICoach) Stream(ctx context.Context, req domain.CoachRequest, emit func(chunk string) error) error {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(o.model),
		Messages: openAIMessages(req),
	}

	stream := o.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			if err := emit(text); err != nil {
				return err
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("openai stream failed: %w", err)
	}
	return nil
}
