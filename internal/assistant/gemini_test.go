package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wisetee/orderline-backend/pkg/config"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiBackend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend, err := NewGeminiBackend(config.GeminiConfig{APIKey: "test-key", Model: "gemini-2.5-flash"})
	if err != nil {
		t.Fatal(err)
	}
	backend.baseURL = server.URL
	return backend
}

func TestGeminiCompleteMapsRolesAndParsesReply(t *testing.T) {
	var got geminiRequest
	backend := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query, got %q", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "what size pizza?"}}}},
			},
		})
	})

	messages := []Message{
		{Role: RoleSystem, Content: "take orders"},
		{Role: RoleUser, Content: "pizza"},
		{Role: RoleAssistant, Content: "noted"},
	}
	reply, err := backend.Complete(context.Background(), messages)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "what size pizza?" {
		t.Fatalf("unexpected reply %q", reply)
	}

	if len(got.Contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(got.Contents))
	}
	wantRoles := []string{"model", "user", "model"}
	for i, content := range got.Contents {
		if content.Role != wantRoles[i] {
			t.Fatalf("content %d: expected role %q, got %q", i, wantRoles[i], content.Role)
		}
	}
	if got.GenerationConfig.Temperature != geminiTemperature {
		t.Fatalf("unexpected temperature %v", got.GenerationConfig.Temperature)
	}
	if got.GenerationConfig.MaxOutputTokens != maxCompletionTokens {
		t.Fatalf("unexpected max tokens %d", got.GenerationConfig.MaxOutputTokens)
	}
}

func TestGeminiCompleteRateLimitIsUnavailable(t *testing.T) {
	backend := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := backend.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestGeminiCompleteClientErrorIsTerminal(t *testing.T) {
	backend := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	})

	_, err := backend.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrBackendUnavailable) {
		t.Fatal("4xx responses must not be treated as availability failures")
	}
}

func TestGeminiCompleteEmptyCandidates(t *testing.T) {
	backend := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	if _, err := backend.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected an error for empty candidates")
	}
}

func TestNewGeminiBackendRequiresKey(t *testing.T) {
	if _, err := NewGeminiBackend(config.GeminiConfig{Model: "gemini-2.5-flash"}); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
