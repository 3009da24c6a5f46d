package storage

import (
	"fmt"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/config"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/storage/badger"
	"github.com/bobmcallan/paisa-buddy/internal/storage/memory"
)

// NewStorageManager creates a new storage manager based on config.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	switch cfg.Storage.Backend {
	case "memory":
		logger.Warn().Msg("using in-memory storage, ledgers will not survive a restart")
		return memory.NewManager(), nil
	case "badger", "":
		return badger.NewManager(logger, &cfg.Storage.Badger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
