package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// openaiGenerator talks to the OpenAI chat completions API.
type openaiGenerator struct {
	client *openai.Client
	model  string
}

func newOpenAIGenerator(cfg Config) *openaiGenerator {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openaiGenerator{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}
}

func (g *openaiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

func (g *openaiGenerator) Chat(ctx context.Context, system string, messages []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: system,
		})
	}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return g.complete(ctx, msgs)
}

func (g *openaiGenerator) complete(ctx context.Context, msgs []openai.ChatCompletionMessage) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: no response choices")
	}
	return resp.Choices[0].Message.Content, nil
}
