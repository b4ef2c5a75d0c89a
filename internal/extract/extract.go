// Package extract turns a recorded voice clip into structured item
// candidates via a remote speech-capable model.
package extract

import (
	"context"
	"errors"
	"fmt"

	"changuito/internal/provider"
	"changuito/internal/recording"
)

// Mode selects which extraction prompt to use.
type Mode string

const (
	// ModeShopping extracts product, quantity and price.
	ModeShopping Mode = "shopping"
	// ModeWishlist extracts product names only.
	ModeWishlist Mode = "wishlist"
)

// Candidate is one item the model heard in the clip. Quantity and Price
// are decimal strings; they are empty in wishlist mode.
type Candidate struct {
	Product  string
	Quantity string
	Price    string
}

// Client extracts item candidates from audio.
type Client interface {
	ExtractItems(ctx context.Context, clip *recording.Clip, mode Mode) ([]Candidate, error)
}

// Config selects and authenticates the extraction backend.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	Language string // hint for speech transcription, e.g. "es"
}

// ErrMissingCredential means no API key is configured for the selected
// backend.
var ErrMissingCredential = errors.New("API key required")

// NewClient creates an extraction client for the configured provider.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	switch cfg.Provider {
	case provider.Gemini:
		return newGeminiClient(ctx, cfg)
	case provider.OpenAI:
		return newOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported extraction provider: %s", cfg.Provider)
	}
}
