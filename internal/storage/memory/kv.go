// Package memory is a process-local storage backend for tests and the
// "memory" storage setting. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
)

// KVStorage is a map-backed interfaces.KeyValueStorage.
type KVStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKVStorage creates an empty store.
func NewKVStorage() *KVStorage {
	return &KVStorage{items: make(map[string]string)}
}

func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return "", fmt.Errorf("key %s: %w", key, interfaces.ErrNotFound)
	}
	return v, nil
}

func (s *KVStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
	return nil
}

func (s *KVStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Scan copies out the matching entries.
func (s *KVStorage) Scan(_ context.Context, prefix string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for k, v := range s.items {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

// Manager implements interfaces.StorageManager over a KVStorage.
type Manager struct {
	kv *KVStorage
}

// NewManager creates an in-memory storage manager.
func NewManager() *Manager {
	return &Manager{kv: NewKVStorage()}
}

func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage { return m.kv }
func (m *Manager) Close() error                                { return nil }
