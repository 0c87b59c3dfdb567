// Package chat implements the tourism assistant on top of an LLM completion
// provider.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/domain"
	"github.com/tripdex/tripdex/internal/logger"
)

// systemPrompt guides the assistant's tone and scope.
const systemPrompt = `You are a knowledgeable Dubai tourism assistant.
You help tourists discover Dubai's attractions, culture, and experiences.

Guidelines:
- Keep responses concise (2-5 sentences)
- Be culturally aware (respect for Ramadan, prayer times, dress codes)
- Prioritize safety in all recommendations
- Use markdown formatting for better readability
- Be friendly and helpful

Focus on: attractions, restaurants, culture, safety, transportation, best times to visit.`

// maxHistoryTurns caps how much prior conversation is forwarded to the provider.
const maxHistoryTurns = 20

// Service answers tourist questions. Stateless; conversation history travels
// with each request.
type Service struct {
	completer domain.ChatCompleter
}

// New creates a chat service.
func New(completer domain.ChatCompleter) *Service {
	return &Service{completer: completer}
}

// Chat sends the message and trimmed history to the assistant provider.
func (s *Service) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	reply, err := s.completer.Complete(ctx, systemPrompt, history, req.Message)
	if err != nil {
		logger.FromContext(ctx).Error("Assistant completion failed", zap.Error(err))
		return nil, fmt.Errorf("assistant completion: %w", err)
	}

	return &domain.ChatResponse{Reply: reply}, nil
}
