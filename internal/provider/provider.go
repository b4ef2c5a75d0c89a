// Package provider is the registry of selectable chat models and remote
// backends.
package provider

import "strings"

// Backend names for the remote pipeline.
const (
	Gemini = "gemini"
	OpenAI = "openai"
)

// WhisperModel is the transcription model used by the openai backend's
// two-step variant (transcribe, then extract from the transcript).
const WhisperModel = "whisper-1"

// Model describes one selectable chat model.
type Model struct {
	ID    string
	Label string
}

// chatModels is the fixed list offered by the model selector.
var chatModels = []Model{
	{ID: "gemini-2.5-flash", Label: "Gemini 2.5 Flash"},
	{ID: "gemini-2.5-flash-lite", Label: "Gemini 2.5 Flash Lite"},
	{ID: "gemini-2.0-flash", Label: "Gemini 2.0 Flash"},
	{ID: "gemini-2.0-flash-lite", Label: "Gemini 2.0 Flash Lite"},
	{ID: "gemma-3-12b-it", Label: "Gemma 3 12B"},
	{ID: "gemma-3-27b-it", Label: "Gemma 3 27B"},
}

// ChatModels returns the selectable models in display order.
func ChatModels() []Model {
	out := make([]Model, len(chatModels))
	copy(out, chatModels)
	return out
}

// Lookup returns the model with the given id.
func Lookup(id string) (Model, bool) {
	for _, m := range chatModels {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// DefaultChatModel is the model used before the user picks one.
func DefaultChatModel() Model {
	m, _ := Lookup("gemini-2.5-flash-lite")
	return m
}

// SupportsThinking reports whether the model accepts a thinking budget.
// Gemini 2.0 and Gemma models do not; sending the config to them fails
// the request outright.
func SupportsThinking(modelID string) bool {
	return !strings.HasPrefix(modelID, "gemini-2.0") && !strings.HasPrefix(modelID, "gemma")
}
