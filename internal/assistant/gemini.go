package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wisetee/orderline-backend/pkg/config"
)

const (
	geminiBackendName = "gemini"
	geminiAPIBase     = "https://generativelanguage.googleapis.com/v1beta"

	geminiTemperature = 0.7
	geminiTimeout     = 30 * time.Second
)

// GeminiBackend serves replies from the Gemini generateContent REST API.
type GeminiBackend struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewGeminiBackend validates configuration and builds the backend.
func NewGeminiBackend(cfg config.GeminiConfig) (*GeminiBackend, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	return &GeminiBackend{
		httpClient: &http.Client{Timeout: geminiTimeout},
		baseURL:    geminiAPIBase,
		apiKey:     apiKey,
		model:      cfg.Model,
	}, nil
}

func (b *GeminiBackend) Name() string {
	return geminiBackendName
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete runs one generateContent call. Gemini only knows the user and
// model roles, so system and assistant turns both travel as "model".
func (b *GeminiBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	payload := geminiRequest{
		Contents: make([]geminiContent, 0, len(messages)),
		GenerationConfig: generationConfig{
			Temperature:     geminiTemperature,
			MaxOutputTokens: maxCompletionTokens,
		},
	}
	for _, m := range messages {
		role := "model"
		if m.Role == RoleUser {
			role = "user"
		}
		payload.Contents = append(payload.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal gemini payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", b.baseURL, b.model, b.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini http: %s: %w", err.Error(), ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("gemini status %d: %w", resp.StatusCode, ErrBackendUnavailable)
	default:
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	for _, candidate := range decoded.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("gemini response had no candidate text")
}
