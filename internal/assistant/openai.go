package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/wisetee/orderline-backend/pkg/config"
)

const (
	openAIBackendName = "openai"

	// Replies stay short; the agent asks for one missing slot at a time.
	maxCompletionTokens = 200
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIBackend serves replies from the OpenAI chat-completion API.
type OpenAIBackend struct {
	api   chatCompleter
	model string
}

// NewOpenAIBackend validates configuration and builds the backend.
func NewOpenAIBackend(cfg config.OpenAIConfig) (*OpenAIBackend, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	return &OpenAIBackend{
		api:   openai.NewClient(apiKey),
		model: cfg.Model,
	}, nil
}

func (b *OpenAIBackend) Name() string {
	return openAIBackendName
}

// Complete runs one chat completion. Rate limits and server faults surface
// as ErrBackendUnavailable so the responder can try the secondary backend.
func (b *OpenAIBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     b.model,
		MaxTokens: maxCompletionTokens,
		Messages:  make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := b.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if isRetriableOpenAIError(err) {
			return "", fmt.Errorf("openai completion: %s: %w", err.Error(), ErrBackendUnavailable)
		}
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func isRetriableOpenAIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	// Transport-level failures (connection refused, DNS) also warrant fallback.
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr)
}
