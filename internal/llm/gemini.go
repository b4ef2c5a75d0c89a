package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"changuito/internal/provider"
)

// geminiGenerator talks to the Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGeminiGenerator(ctx context.Context, cfg Config) (*geminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = provider.DefaultChatModel().ID
	}
	return &geminiGenerator{client: client, model: model}, nil
}

// generateConfig disables thinking on models that support the budget; on
// the rest the config must be omitted entirely.
func (g *geminiGenerator) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if provider.SupportsThinking(g.model) {
		budget := int32(0)
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}
	return cfg
}

func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.generateConfig())
	if err != nil {
		log.Printf("gemini-llm: API call failed after %v: %v", time.Since(start), err)
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini generate content: empty response")
	}
	return text, nil
}

// chatContents maps conversation turns onto the wire roles.
func chatContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

func (g *geminiGenerator) Chat(ctx context.Context, system string, messages []Message) (string, error) {
	contents := chatContents(messages)

	cfg := g.generateConfig()
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	return resp.Text(), nil
}
