// Package ledgers hands out each user's portfolio, budget and learning
// services, loading them from storage on first use.
package ledgers

import (
	"context"
	"sync"

	"github.com/bobmcallan/paisa-buddy/internal/budget"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/fraud"
	"github.com/bobmcallan/paisa-buddy/internal/learning"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/bobmcallan/paisa-buddy/internal/seed"
	"github.com/bobmcallan/paisa-buddy/internal/storage"
	"github.com/shopspring/decimal"
)

// Workspace is one user's set of services.
type Workspace struct {
	UID       string
	Portfolio *portfolio.Service
	Budget    *budget.Service
	Learning  *learning.Service
	Fraud     *fraud.Attempts
}

// Registry caches workspaces for the life of the process.
type Registry struct {
	mu           sync.Mutex
	workspaces   map[string]*Workspace
	store        *storage.SnapshotStore
	startingCash decimal.Decimal
	logger       *common.Logger
}

func NewRegistry(store *storage.SnapshotStore, startingCash decimal.Decimal, logger *common.Logger) *Registry {
	return &Registry{
		workspaces:   make(map[string]*Workspace),
		store:        store,
		startingCash: startingCash,
		logger:       logger,
	}
}

// Workspace returns the user's services, creating them on first call.
// Missing or corrupt snapshots start from the seed datasets.
func (r *Registry) Workspace(ctx context.Context, uid string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ws, ok := r.workspaces[uid]; ok {
		return ws
	}

	ws := &Workspace{
		UID: uid,
		Portfolio: portfolio.Open(ctx, uid, r.store, func() models.Portfolio {
			return seed.Portfolio(r.startingCash)
		}, r.logger),
		Budget:   budget.Open(ctx, uid, r.store, seed.Budget, r.logger),
		Learning: learning.Open(ctx, uid, r.store, seed.Modules, r.logger),
		Fraud:    fraud.NewAttempts(),
	}
	r.workspaces[uid] = ws
	r.logger.Debug().Str("uid", uid).Msg("workspace loaded")
	return ws
}

// StartingCash is the opening balance new portfolios get.
func (r *Registry) StartingCash() decimal.Decimal { return r.startingCash }

// Len reports how many workspaces are loaded.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
