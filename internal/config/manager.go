package config

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Manager provides thread-safe access to live configuration.
type Manager interface {
	Get() *Config
	Set(cfg *Config)
	Reload(path string) error
}

// RWMutexManager is a read-heavy, RWMutex-backed Manager.
type RWMutexManager struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewManager constructs a manager seeded with an initial config.
func NewManager(initial *Config) *RWMutexManager {
	return &RWMutexManager{cfg: initial.Clone()}
}

// Get returns a cloned snapshot under a shared lock, so callers never
// observe a torn write and can't mutate the manager's own copy.
func (m *RWMutexManager) Get() *Config {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Clone()
}

// Set atomically swaps the current config.
func (m *RWMutexManager) Set(cfg *Config) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg.Clone()
}

// Reload re-reads path (re-applying env, with no in-memory overrides) and
// swaps it in.
func (m *RWMutexManager) Reload(path string) error {
	if m == nil {
		return fmt.Errorf("config: manager is nil")
	}
	if path == "" {
		return fmt.Errorf("config: reload path is required")
	}
	loaded, err := Load(path, nil)
	if err != nil {
		return err
	}
	m.Set(loaded)
	return nil
}

var _ Manager = (*RWMutexManager)(nil)

// WatchFile starts an fsnotify watch on path and reloads the manager on
// every write event, logging (not failing) on a bad reload so a single
// malformed save doesn't take down a running orchestrator. The returned
// stop func closes the watcher; callers should defer it.
func WatchFile(m *RWMutexManager, path string, logger *slog.Logger) (stop func() error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: new watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := m.Reload(path); err != nil {
					logger.Warn("config reload failed", "path", path, "error", err)
				} else {
					logger.Info("config reloaded", "path", path)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "error", err)
			}
		}
	}()

	return watcher.Close, nil
}
