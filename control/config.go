// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe runtime settings store with change-driven reload listeners.

package control

import (
	"reflect"
	"slices"
	"sync"
)

// ConfigStore is a dynamic key/value map with snapshot reads and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config: make(map[string]any),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		out[k] = v
	}
	return out
}

// Get returns a single value.
func (cs *ConfigStore) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	v, ok := cs.config[key]
	return v, ok
}

// SetConfig merges new values. Listeners run synchronously, outside the
// lock, and only when at least one value actually changed.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) bool {
	cs.mu.Lock()
	changed := false
	for k, v := range newCfg {
		if old, ok := cs.config[k]; !ok || !reflect.DeepEqual(old, v) {
			changed = true
		}
		cs.config[k] = v
	}
	listeners := slices.Clone(cs.listeners)
	cs.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn()
		}
	}
	return changed
}

// OnReload registers a listener called after config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
