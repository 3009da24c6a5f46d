package handlers

import (
	"context"
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/common"
)

// AccountCounter is satisfied by storage.SnapshotStore.
type AccountCounter interface {
	CountProfiles(ctx context.Context) (int, error)
}

// WorkspaceCounter is satisfied by ledgers.Registry.
type WorkspaceCounter interface {
	Len() int
}

// HealthHandler reports whether the ledger store answers reads.
type HealthHandler struct {
	logger     *common.Logger
	accounts   AccountCounter
	workspaces WorkspaceCounter
}

// NewHealthHandler creates a new health handler. Either counter may be nil.
func NewHealthHandler(logger *common.Logger, accounts AccountCounter, workspaces WorkspaceCounter) *HealthHandler {
	return &HealthHandler{logger: logger, accounts: accounts, workspaces: workspaces}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	body := map[string]interface{}{"status": "ok"}
	if h.workspaces != nil {
		body["active_workspaces"] = h.workspaces.Len()
	}
	if h.accounts != nil {
		n, err := h.accounts.CountProfiles(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("health check: ledger store unreadable")
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  "ledger store unavailable",
			})
			return
		}
		body["accounts"] = n
	}

	WriteJSON(w, http.StatusOK, body)
}
