package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tripdex/tripdex/internal/domain"
)

type mockCompleter struct {
	prompt  string
	history []domain.ChatMessage
	message string
	reply   string
	err     error
}

func (m *mockCompleter) Complete(
	_ context.Context, systemPrompt string, history []domain.ChatMessage, message string,
) (string, error) {
	m.prompt = systemPrompt
	m.history = history
	m.message = message
	return m.reply, m.err
}

func TestChat_ForwardsMessageAndHistory(t *testing.T) {
	completer := &mockCompleter{reply: "Visit between November and March."}
	svc := New(completer)

	req := &domain.ChatRequest{
		Message: "Best time to visit Dubai?",
		History: []domain.ChatMessage{
			{Role: domain.ChatRoleUser, Content: "Hi"},
			{Role: domain.ChatRoleAssistant, Content: "Hello! How can I help?"},
		},
	}
	resp, err := svc.Chat(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Reply != "Visit between November and March." {
		t.Errorf("unexpected reply %q", resp.Reply)
	}
	if completer.message != "Best time to visit Dubai?" {
		t.Errorf("unexpected forwarded message %q", completer.message)
	}
	if len(completer.history) != 2 {
		t.Errorf("expected history forwarded, got %d messages", len(completer.history))
	}
	if !strings.Contains(completer.prompt, "tourism assistant") {
		t.Errorf("system prompt not forwarded: %q", completer.prompt)
	}
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	svc := New(&mockCompleter{})

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: ""})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestChat_UnknownHistoryRoleRejected(t *testing.T) {
	svc := New(&mockCompleter{})

	req := &domain.ChatRequest{
		Message: "hello",
		History: []domain.ChatMessage{{Role: "system", Content: "sneaky"}},
	}
	_, err := svc.Chat(context.Background(), req)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestChat_LongHistoryTrimmed(t *testing.T) {
	completer := &mockCompleter{reply: "ok"}
	svc := New(completer)

	history := make([]domain.ChatMessage, 30)
	for i := range history {
		history[i] = domain.ChatMessage{Role: domain.ChatRoleUser, Content: "msg"}
	}
	req := &domain.ChatRequest{Message: "hello", History: history}
	if _, err := svc.Chat(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completer.history) != maxHistoryTurns {
		t.Errorf("history length = %d, want %d", len(completer.history), maxHistoryTurns)
	}
}

func TestChat_ProviderError(t *testing.T) {
	completer := &mockCompleter{err: domain.ErrChatFailed}
	svc := New(completer)

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "hello"})
	if !errors.Is(err, domain.ErrChatFailed) {
		t.Fatalf("expected ErrChatFailed, got %v", err)
	}
}
