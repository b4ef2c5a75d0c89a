package config

import (
	"time"

	"changuito/internal/provider"
)

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	return &Config{
		Recording: RecordingConfig{
			SampleRate:        16000,
			Channels:          1,
			Format:            "s16",
			BufferSize:        8192,
			Device:            "",
			ChannelBufferSize: 30,
			Timeout:           5 * time.Minute,
		},
		Backend: BackendConfig{
			Provider: provider.Gemini,
			Language: "es",
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "log",
		},
		Chat: ChatConfig{
			Enabled: true,
		},
	}
}
