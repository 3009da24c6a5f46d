package handlers

import (
	"context"
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/leaderboard"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
)

// LeaderboardHandler ranks the user against the peer portfolios.
type LeaderboardHandler struct {
	ledgers  *ledgers.Registry
	profiles interfaces.ProfileStore
	peers    []leaderboard.Peer
	avatar   string
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(reg *ledgers.Registry, profiles interfaces.ProfileStore, peers []leaderboard.Peer, avatar string) *LeaderboardHandler {
	return &LeaderboardHandler{ledgers: reg, profiles: profiles, peers: peers, avatar: avatar}
}

// player builds the current user's entry; the display name falls back to "You".
func (h *LeaderboardHandler) player(ctx context.Context, ws *ledgers.Workspace) leaderboard.Player {
	p := leaderboard.Player{
		Avatar:    h.avatar,
		Portfolio: ws.Portfolio.Snapshot(),
	}
	if h.profiles != nil {
		if profile, err := h.profiles.LoadProfile(ctx, ws.UID); err == nil {
			p.Name = profile.DisplayName
		}
	}
	return p
}

func (h *LeaderboardHandler) entries(ctx context.Context, ws *ledgers.Workspace) []leaderboard.Entry {
	return leaderboard.Build(h.peers, h.player(ctx, ws))
}

// HandleLeaderboard handles GET /api/leaderboard.
func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries":      h.entries(r.Context(), ws),
		"achievements": leaderboard.Achievements(ws.Portfolio.Snapshot()),
	})
}
