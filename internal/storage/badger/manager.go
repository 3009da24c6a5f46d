// Package badger keeps ledger snapshots in an embedded Badger database.
// Badger takes a directory lock, so only one process may hold a path.
package badger

import (
	"fmt"
	"os"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/config"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// Manager implements interfaces.StorageManager over one badgerhold store.
type Manager struct {
	store  *badgerhold.Store
	kv     *KVStorage
	path   string
	logger *common.Logger
}

// NewManager opens the database at cfg.Path, creating the directory if needed.
func NewManager(logger *common.Logger, cfg *config.BadgerConfig) (*Manager, error) {
	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = cfg.Path
	options.ValueDir = cfg.Path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store at %s (is another paisa process using it?): %w", cfg.Path, err)
	}

	logger.Info().Str("path", cfg.Path).Msg("ledger store opened")

	return &Manager{
		store:  store,
		kv:     &KVStorage{store: store},
		path:   cfg.Path,
		logger: logger,
	}, nil
}

func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close flushes and releases the directory lock.
func (m *Manager) Close() error {
	if m.store == nil {
		return nil
	}
	m.logger.Debug().Str("path", m.path).Msg("closing ledger store")
	return m.store.Close()
}
