package domain

import (
	"context"
	"fmt"
)

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a single turn in an assistant conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest asks the tourism assistant a question, optionally with prior
// conversation history.
type ChatRequest struct {
	Message string
	History []ChatMessage
}

// Validate checks the chat request.
func (r *ChatRequest) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}
	for i, msg := range r.History {
		if msg.Role != ChatRoleUser && msg.Role != ChatRoleAssistant {
			return fmt.Errorf("%w: history[%d] has unknown role %q", ErrInvalidRequest, i, msg.Role)
		}
	}
	return nil
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Reply string
}

// ChatCompleter is an LLM completion provider. Implementations send the
// system prompt, the history, and the user message as one conversation.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt string, history []ChatMessage, message string) (string, error)
}
