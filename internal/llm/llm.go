// Package llm provides text generation against the configured remote
// model, used by wishlist reconciliation and the chat screen.
package llm

import (
	"context"
	"errors"
	"fmt"

	"changuito/internal/provider"
)

// ErrMissingCredential means no API key is configured for the selected
// backend. Callers route this to the credential prompt instead of a
// generic failure alert.
var ErrMissingCredential = errors.New("API key required")

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// Generator produces text from a remote model.
type Generator interface {
	// GenerateText issues a single-shot prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// Chat sends a full conversation with a system instruction.
	Chat(ctx context.Context, system string, messages []Message) (string, error)
}

// Config selects and authenticates the backing model.
type Config struct {
	Provider string // provider.Gemini or provider.OpenAI
	Model    string
	APIKey   string
}

// NewGenerator creates a generator for the configured provider.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	switch cfg.Provider {
	case provider.Gemini:
		return newGeminiGenerator(ctx, cfg)
	case provider.OpenAI:
		return newOpenAIGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
