package handlers

import (
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/budget"
	"github.com/bobmcallan/paisa-buddy/internal/leaderboard"
	"github.com/bobmcallan/paisa-buddy/internal/learning"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
)

// DashboardHandler serves the one-call overview of every ledger.
type DashboardHandler struct {
	board *LeaderboardHandler
}

// NewDashboardHandler creates a new dashboard handler. Ranking reuses the
// leaderboard handler's peers and profile lookup.
func NewDashboardHandler(board *LeaderboardHandler) *DashboardHandler {
	return &DashboardHandler{board: board}
}

type dashboardResponse struct {
	Portfolio    portfolio.Summary         `json:"portfolio"`
	Budget       budget.Totals             `json:"budget"`
	Learning     learning.Summary          `json:"learning"`
	Rank         int                       `json:"rank"`
	Players      int                       `json:"players"`
	Achievements []leaderboard.Achievement `json:"achievements"`
}

// HandleDashboard handles GET /api/dashboard.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ws, ok := workspace(w, r, h.board.ledgers)
	if !ok {
		return
	}

	snap := ws.Portfolio.Snapshot()
	entries := h.board.entries(r.Context(), ws)
	resp := dashboardResponse{
		Portfolio:    portfolio.Summarize(snap),
		Budget:       ws.Budget.Totals(),
		Learning:     ws.Learning.Summary(),
		Players:      len(entries),
		Achievements: leaderboard.Achievements(snap),
	}
	for _, e := range entries {
		if e.IsCurrentUser {
			resp.Rank = e.Rank
			break
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}
