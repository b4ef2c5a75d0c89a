package config

import "time"

type Config struct {
	Recording     RecordingConfig     `toml:"recording"`
	Backend       BackendConfig       `toml:"backend"`
	Notifications NotificationsConfig `toml:"notifications"`
	Chat          ChatConfig          `toml:"chat"`
}

type RecordingConfig struct {
	SampleRate        int           `toml:"sample_rate"`
	Channels          int           `toml:"channels"`
	Format            string        `toml:"format"`
	BufferSize        int           `toml:"buffer_size"`
	Device            string        `toml:"device"`
	ChannelBufferSize int           `toml:"channel_buffer_size"`
	Timeout           time.Duration `toml:"timeout"`
}

// BackendConfig picks the remote pipeline: "gemini" sends audio inline to
// a generative model, "openai" transcribes with whisper first and
// extracts from the transcript.
type BackendConfig struct {
	Provider string `toml:"provider"`
	Language string `toml:"language"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

// ChatConfig gates the chat screen.
type ChatConfig struct {
	Enabled bool `toml:"enabled"`
}
