package config

import (
	"context"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Manager serves the current config and swaps it out when the file on
// disk is rewritten. A rewrite that fails to load or validate is skipped
// and the last good config stays in effect.
type Manager struct {
	mu      sync.RWMutex
	current *Config

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

func NewManager() (*Manager, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("config: validation warning: %v", err)
	}
	return &Manager{current: cfg}, nil
}

// GetConfig returns a copy of the current config.
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := *m.current
	return &cp
}

// StartWatching reloads the config whenever the file is rewritten.
// Watching the directory rather than the file survives editors that
// replace the file on save.
func (m *Manager) StartWatching(ctx context.Context) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}
	m.watcher = watcher

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		name := filepath.Base(path)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name || !event.Op.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				cfg, err := Load()
				if err != nil {
					log.Printf("config: reload failed, keeping previous: %v", err)
					continue
				}
				if err := cfg.Validate(); err != nil {
					log.Printf("config: rewritten file is invalid, keeping previous: %v", err)
					continue
				}
				m.mu.Lock()
				m.current = cfg
				m.mu.Unlock()
				log.Printf("config: reloaded from %s", event.Name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch error: %v", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Printf("config: watching %s", path)
	return nil
}

func (m *Manager) Stop() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.wg.Wait()
}
