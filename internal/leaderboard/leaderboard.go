// Package leaderboard ranks the user against peer portfolios and derives achievements.
package leaderboard

import (
	"sort"

	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Entry is one leaderboard row.
type Entry struct {
	Rank           int             `json:"rank"`
	Name           string          `json:"name"`
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
	Change         decimal.Decimal `json:"change"`
	Avatar         string          `json:"avatar"`
	IsCurrentUser  bool            `json:"isCurrentUser,omitempty"`
}

// Peer is a competitor entry before ranking.
type Peer struct {
	Name           string
	PortfolioValue decimal.Decimal
	Change         decimal.Decimal
	Avatar         string
}

// Player describes the current user.
type Player struct {
	Name      string
	Avatar    string
	Portfolio models.Portfolio
}

// Entry values the player's portfolio as cash plus holdings. Change is the
// return on contributed capital, so deposits and seeded holdings are not gain.
func (p Player) Entry() Entry {
	s := portfolio.Summarize(p.Portfolio)
	capital := p.Portfolio.Capital()
	change := decimal.Zero
	if capital.IsPositive() {
		change = s.NetWorth.Sub(capital).Div(capital).Mul(hundred).Round(2)
	}
	name := p.Name
	if name == "" {
		name = "You"
	}
	return Entry{
		Name:           name,
		PortfolioValue: s.NetWorth,
		Change:         change,
		Avatar:         p.Avatar,
		IsCurrentUser:  true,
	}
}

// Build ranks peers and the player by return, highest first, then by
// portfolio value. Remaining ties keep input order with the player after peers.
func Build(peers []Peer, you Player) []Entry {
	entries := make([]Entry, 0, len(peers)+1)
	for _, p := range peers {
		entries = append(entries, Entry{
			Name:           p.Name,
			PortfolioValue: p.PortfolioValue,
			Change:         p.Change,
			Avatar:         p.Avatar,
		})
	}
	entries = append(entries, you.Entry())

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Change.Equal(entries[j].Change) {
			return entries[i].Change.GreaterThan(entries[j].Change)
		}
		return entries[i].PortfolioValue.GreaterThan(entries[j].PortfolioValue)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
