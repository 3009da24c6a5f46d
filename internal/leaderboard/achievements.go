package leaderboard

import (
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/shopspring/decimal"
)

// Achievement is a milestone and whether the user has reached it.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Achieved    bool   `json:"achieved"`
}

const (
	diversifierSectors = 3
	mutualFundMaster   = 5
)

var profitProPct = decimal.NewFromInt(10)

// Achievements evaluates every milestone against the portfolio.
func Achievements(p models.Portfolio) []Achievement {
	sectors := map[string]struct{}{}
	funds := map[string]struct{}{}
	for _, pos := range p.Positions {
		if !pos.Held() {
			continue
		}
		if pos.Sector != "" {
			sectors[pos.Sector] = struct{}{}
		}
		if pos.Type == models.AssetMutualFund {
			funds[pos.ID] = struct{}{}
		}
	}
	s := portfolio.Summarize(p)

	return []Achievement{
		{
			ID:          "first-investment",
			Title:       "First Investment",
			Description: "Made your first virtual investment.",
			Achieved:    s.HeldPositions > 0,
		},
		{
			ID:          "diversifier",
			Title:       "Diversifier",
			Description: "Hold assets in 3 different sectors.",
			Achieved:    len(sectors) >= diversifierSectors,
		},
		{
			ID:          "profit-pro",
			Title:       "Profit Pro",
			Description: "Achieve a 10% portfolio gain.",
			Achieved:    s.TotalInvestment.IsPositive() && s.TotalGainLossPct.GreaterThanOrEqual(profitProPct),
		},
		{
			ID:          "mutual-fund-master",
			Title:       "Mutual Fund Master",
			Description: "Invest in 5 different mutual funds.",
			Achieved:    len(funds) >= mutualFundMaster,
		},
	}
}
