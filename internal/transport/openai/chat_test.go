package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/domain"
)

type chatAPIRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestChatClient_Complete(t *testing.T) {
	var captured chatAPIRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role":    "assistant",
					"content": "Visit between November and March.",
				}},
			},
		})
	}))
	defer server.Close()

	client := NewChatClient(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	history := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "Hi"},
		{Role: domain.ChatRoleAssistant, Content: "Hello! How can I help?"},
	}
	reply, err := client.Complete(context.Background(), "You are a tourism assistant.", history, "Best time to visit?")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "Visit between November and March." {
		t.Errorf("unexpected reply %q", reply)
	}

	if len(captured.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", captured.Messages[0].Role)
	}
	if captured.Messages[1].Role != "user" || captured.Messages[2].Role != "assistant" {
		t.Errorf("history roles out of order: %q, %q", captured.Messages[1].Role, captured.Messages[2].Role)
	}
	if captured.Messages[3].Content != "Best time to visit?" {
		t.Errorf("unexpected final message %q", captured.Messages[3].Content)
	}
}

func TestChatClient_ProviderErrorWrapsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "backend unavailable"},
		})
	}))
	defer server.Close()

	client := NewChatClient(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := client.Complete(context.Background(), "prompt", nil, "message")
	if !errors.Is(err, domain.ErrChatFailed) {
		t.Errorf("expected ErrChatFailed, got %v", err)
	}
}

func TestChatClient_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := NewChatClient(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := client.Complete(context.Background(), "prompt", nil, "message")
	if !errors.Is(err, domain.ErrChatFailed) {
		t.Errorf("expected ErrChatFailed, got %v", err)
	}
}
