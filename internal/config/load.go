package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GetConfigPath returns the config file path, creating the directory if
// needed. CHANGUITO_CONFIG_DIR overrides the default location.
func GetConfigPath() (string, error) {
	dir := os.Getenv("CHANGUITO_CONFIG_DIR")
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user config directory: %w", err)
		}
		dir = filepath.Join(configDir, "changuito")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file. If the file does not exist the defaults are
// written and returned, so a fresh install runs without a setup step.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := Save(config); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		log.Printf("Config: wrote default configuration to %s", configPath)
		return config, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	return &config, nil
}

// Save writes the config file.
func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", configPath, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// applyDefaults fills fields a hand-edited file may leave out.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Recording.SampleRate == 0 {
		c.Recording.SampleRate = def.Recording.SampleRate
	}
	if c.Recording.Channels == 0 {
		c.Recording.Channels = def.Recording.Channels
	}
	if c.Recording.Format == "" {
		c.Recording.Format = def.Recording.Format
	}
	if c.Recording.BufferSize == 0 {
		c.Recording.BufferSize = def.Recording.BufferSize
	}
	if c.Recording.ChannelBufferSize == 0 {
		c.Recording.ChannelBufferSize = def.Recording.ChannelBufferSize
	}
	if c.Recording.Timeout == 0 {
		c.Recording.Timeout = def.Recording.Timeout
	}
	if c.Backend.Provider == "" {
		c.Backend.Provider = def.Backend.Provider
	}
	if c.Notifications.Type == "" {
		c.Notifications.Type = def.Notifications.Type
	}
}
