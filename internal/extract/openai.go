package extract

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"changuito/internal/provider"
	"changuito/internal/recording"
)

// openaiClient has no audio-capable chat model wired up, so it runs two
// calls: Whisper for the transcript, then a chat completion over it.
type openaiClient struct {
	client   *openai.Client
	model    string
	language string
}

func newOpenAIClient(cfg Config) *openaiClient {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openaiClient{
		client:   openai.NewClient(cfg.APIKey),
		model:    model,
		language: cfg.Language,
	}
}

func (c *openaiClient) ExtractItems(ctx context.Context, clip *recording.Clip, mode Mode) ([]Candidate, error) {
	if clip == nil || len(clip.WAV) == 0 {
		return nil, fmt.Errorf("empty audio clip")
	}

	transcript, err := c.transcribe(ctx, clip)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript) == "" {
		return []Candidate{}, nil
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: transcriptPrompt(mode)},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("openai extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai extraction: no response choices")
	}

	return ParseCandidates(CleanResponse(resp.Choices[0].Message.Content))
}

func (c *openaiClient) transcribe(ctx context.Context, clip *recording.Clip) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    provider.WhisperModel,
		Reader:   bytes.NewReader(clip.WAV),
		FilePath: "audio.wav",
		Language: c.language,
	})
	if err != nil {
		log.Printf("openai-extract: transcription failed after %v: %v", time.Since(start), err)
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	log.Printf("openai-extract: transcribed %v of audio in %v", clip.Duration, time.Since(start))
	return resp.Text, nil
}

// transcriptPrompt adapts the audio prompt to text input for the
// two-step path.
func transcriptPrompt(mode Mode) string {
	p := BuildPrompt(mode)
	return strings.Replace(p, "Listen to the audio and extract", "Read the transcript and extract", 1)
}
