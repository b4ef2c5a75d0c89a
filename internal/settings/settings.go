// Package settings holds the user-facing settings. Each one is persisted
// independently under its own blob key so a failed write never takes the
// others with it.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"changuito/internal/kv"
	"changuito/internal/provider"
)

// Blob keys, one per setting.
const (
	KeyModel     = "SELECTED_MODEL"
	KeyAutoHide  = "AUTO_HIDE_WISHLIST_ON_ADD"
	KeyGeminiAPI = "GEMINI_API_KEY"
	KeyOpenAIAPI = "OPENAI_API_KEY"
)

// Settings is a snapshot of the persisted settings. It is passed into the
// remote-call clients explicitly; nothing reads credentials from shared
// state.
type Settings struct {
	Model                 string
	AutoHideWishlistOnAdd bool
	GeminiAPIKey          string
	OpenAIAPIKey          string
}

// Load reads every setting, applying defaults for missing ones and
// falling back to the environment for credentials.
func Load(blobs *kv.Store) (Settings, error) {
	s := Settings{
		Model:                 provider.DefaultChatModel().ID,
		AutoHideWishlistOnAdd: true,
	}

	if v, err := getString(blobs, KeyModel); err == nil {
		if _, ok := provider.Lookup(v); ok {
			s.Model = v
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		return s, err
	}

	if v, err := getBool(blobs, KeyAutoHide); err == nil {
		s.AutoHideWishlistOnAdd = v
	} else if !errors.Is(err, kv.ErrNotFound) {
		return s, err
	}

	if v, err := getString(blobs, KeyGeminiAPI); err == nil {
		s.GeminiAPIKey = v
	} else if !errors.Is(err, kv.ErrNotFound) {
		return s, err
	}
	if s.GeminiAPIKey == "" {
		s.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	if v, err := getString(blobs, KeyOpenAIAPI); err == nil {
		s.OpenAIAPIKey = v
	} else if !errors.Is(err, kv.ErrNotFound) {
		return s, err
	}
	if s.OpenAIAPIKey == "" {
		s.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	return s, nil
}

// SaveModel persists the selected model id.
func SaveModel(blobs *kv.Store, modelID string) error {
	if _, ok := provider.Lookup(modelID); !ok {
		return fmt.Errorf("unknown model: %s", modelID)
	}
	return putJSON(blobs, KeyModel, modelID)
}

// SaveAutoHide persists the auto-hide-wishlisted-on-add toggle.
func SaveAutoHide(blobs *kv.Store, on bool) error {
	return putJSON(blobs, KeyAutoHide, on)
}

// SaveGeminiKey persists the Gemini credential.
func SaveGeminiKey(blobs *kv.Store, key string) error {
	return putJSON(blobs, KeyGeminiAPI, key)
}

// ClearGeminiKey removes the Gemini credential.
func ClearGeminiKey(blobs *kv.Store) error {
	return blobs.Delete(KeyGeminiAPI)
}

// SaveOpenAIKey persists the OpenAI credential.
func SaveOpenAIKey(blobs *kv.Store, key string) error {
	return putJSON(blobs, KeyOpenAIAPI, key)
}

// ClearOpenAIKey removes the OpenAI credential.
func ClearOpenAIKey(blobs *kv.Store) error {
	return blobs.Delete(KeyOpenAIAPI)
}

// APIKey returns the credential for the given backend.
func (s Settings) APIKey(backend string) string {
	switch backend {
	case provider.OpenAI:
		return s.OpenAIAPIKey
	default:
		return s.GeminiAPIKey
	}
}

func putJSON(blobs *kv.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return blobs.Put(key, data)
}

func getString(blobs *kv.Store, key string) (string, error) {
	data, err := blobs.Get(key)
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return v, nil
}

func getBool(blobs *kv.Store, key string) (bool, error) {
	data, err := blobs.Get(key)
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return v, nil
}
