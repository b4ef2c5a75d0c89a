package extract

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"changuito/internal/provider"
	"changuito/internal/recording"
)

// geminiClient sends the clip inline to a multimodal Gemini model and
// parses the JSON it returns.
type geminiClient struct {
	client *genai.Client
	model  string
}

func newGeminiClient(ctx context.Context, cfg Config) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = provider.DefaultChatModel().ID
	}
	return &geminiClient{client: client, model: model}, nil
}

func (c *geminiClient) ExtractItems(ctx context.Context, clip *recording.Clip, mode Mode) ([]Candidate, error) {
	if clip == nil || len(clip.WAV) == 0 {
		return nil, fmt.Errorf("empty audio clip")
	}

	parts := []*genai.Part{
		genai.NewPartFromText(BuildPrompt(mode)),
		genai.NewPartFromBytes(clip.WAV, clip.MIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	genCfg := &genai.GenerateContentConfig{}
	if provider.SupportsThinking(c.model) {
		budget := int32(0)
		genCfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		log.Printf("gemini-extract: API call failed after %v: %v", time.Since(start), err)
		return nil, fmt.Errorf("gemini extraction: %w", err)
	}
	log.Printf("gemini-extract: %s responded in %v", c.model, time.Since(start))

	return ParseCandidates(CleanResponse(resp.Text()))
}
