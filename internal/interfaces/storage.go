package interfaces

import (
	"context"
	"errors"
)

// ErrNotFound is returned (wrapped) by storage lookups for absent keys.
var ErrNotFound = errors.New("not found")

// StorageManager owns the key-value store the ledger snapshots live in.
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	Close() error
}

// KeyValueStorage holds string values under colon-namespaced keys
// such as "portfolio:{uid}" and "learning:{uid}:quiz-{module}-q-{question}".
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Scan returns every entry whose key starts with prefix.
	Scan(ctx context.Context, prefix string) (map[string]string, error)
}
