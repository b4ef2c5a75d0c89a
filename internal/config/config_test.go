package config

import (
	"testing"
	"time"

	"changuito/internal/provider"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig should validate: %v", err)
	}
}

func TestLoad_WritesDefaultsOnFirstRun(t *testing.T) {
	t.Setenv("CHANGUITO_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.Provider != provider.Gemini {
		t.Errorf("Backend.Provider = %q, want gemini", cfg.Backend.Provider)
	}
	if cfg.Recording.SampleRate != 16000 {
		t.Errorf("Recording.SampleRate = %d", cfg.Recording.SampleRate)
	}

	// second load reads the written file
	again, err := Load()
	if err != nil {
		t.Fatalf("Load (second): %v", err)
	}
	if *again != *cfg {
		t.Errorf("second Load = %+v, want %+v", again, cfg)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("CHANGUITO_CONFIG_DIR", t.TempDir())

	cfg := DefaultConfig()
	cfg.Backend.Provider = provider.OpenAI
	cfg.Backend.Language = "en"
	cfg.Chat.Enabled = false
	cfg.Recording.Timeout = 2 * time.Minute
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Backend.Provider != provider.OpenAI || got.Backend.Language != "en" {
		t.Errorf("backend not round-tripped: %+v", got.Backend)
	}
	if got.Chat.Enabled {
		t.Errorf("chat.enabled not round-tripped")
	}
	if got.Recording.Timeout != 2*time.Minute {
		t.Errorf("recording.timeout = %v", got.Recording.Timeout)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.Provider = "deepgram"
	if err := cfg.Validate(); err == nil {
		t.Errorf("unknown backend should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Recording.SampleRate = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("zero sample rate should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Notifications.Type = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Errorf("unknown notification type should fail validation")
	}
}

func TestManager_GetConfigCopies(t *testing.T) {
	t.Setenv("CHANGUITO_CONFIG_DIR", t.TempDir())

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Stop()

	a := m.GetConfig()
	a.Backend.Provider = "mutated"
	if m.GetConfig().Backend.Provider == "mutated" {
		t.Errorf("GetConfig must return a copy")
	}
}
