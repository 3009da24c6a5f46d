package handlers

import (
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/config"
)

// VersionHandler reports build metadata and the ledger settings clients
// need to render money.
type VersionHandler struct {
	environment  string
	currency     string
	startingCash string
}

func NewVersionHandler(cfg *config.Config) *VersionHandler {
	return &VersionHandler{
		environment:  cfg.Environment,
		currency:     cfg.Ledger.Currency,
		startingCash: cfg.StartingCash().String(),
	}
}

// ServeHTTP handles GET /api/version.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	info := config.GetVersionInfo()
	WriteJSON(w, http.StatusOK, map[string]string{
		"version":       info.Version,
		"build":         info.Build,
		"git_commit":    info.GitCommit,
		"environment":   h.environment,
		"currency":      h.currency,
		"starting_cash": h.startingCash,
	})
}
