// Package chat keeps an in-memory conversation with the configured
// model. History lives for the process lifetime only.
package chat

import (
	"context"
	"fmt"
	"strings"

	"changuito/internal/llm"
)

// SystemPrompt is sent with every request.
const SystemPrompt = "You are a helpful assistant that always responds at the end with a smiling emoji."

// FailureReply is shown as the assistant turn when a request fails, so
// the transcript stays coherent.
const FailureReply = "Failed to get response."

// Session holds one conversation.
type Session struct {
	gen     llm.Generator
	history []llm.Message
}

// NewSession starts an empty conversation.
func NewSession(gen llm.Generator) *Session {
	return &Session{gen: gen}
}

// History returns a copy of the transcript so far.
func (s *Session) History() []llm.Message {
	return append([]llm.Message{}, s.history...)
}

// Send appends the user turn, asks the model, and appends its reply.
// On failure the assistant turn is a fixed error line and the error is
// returned as well.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty message")
	}
	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: text})

	reply, err := s.gen.Chat(ctx, SystemPrompt, s.history)
	if err != nil {
		s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: FailureReply})
		return FailureReply, fmt.Errorf("chat: %w", err)
	}

	s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: reply})
	return reply, nil
}

// Reset clears the transcript.
func (s *Session) Reset() {
	s.history = nil
}
