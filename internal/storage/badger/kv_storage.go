package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// entry is the stored record; the key doubles as the badger key.
type entry struct {
	Key   string `badgerhold:"key"`
	Value string
}

// KVStorage implements interfaces.KeyValueStorage on a badgerhold store.
type KVStorage struct {
	store *badgerhold.Store
}

// Get wraps interfaces.ErrNotFound for absent keys.
func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	var e entry
	if err := s.store.Get(key, &e); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", fmt.Errorf("key %s: %w", key, interfaces.ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return e.Value, nil
}

func (s *KVStorage) Set(_ context.Context, key, value string) error {
	if err := s.store.Upsert(key, &entry{Key: key, Value: value}); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete is a no-op for absent keys.
func (s *KVStorage) Delete(_ context.Context, key string) error {
	err := s.store.Delete(key, entry{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *KVStorage) Scan(_ context.Context, prefix string) (map[string]string, error) {
	var entries []entry
	var query *badgerhold.Query
	if prefix != "" {
		query = badgerhold.Where(badgerhold.Key).HasPrefix(prefix)
	}
	if err := s.store.Find(&entries, query); err != nil {
		return nil, fmt.Errorf("scan %q: %w", prefix, err)
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}
