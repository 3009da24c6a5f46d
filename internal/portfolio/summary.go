package portfolio

import (
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary holds the totals derived from held positions.
type Summary struct {
	TotalValue       decimal.Decimal `json:"totalPortfolioValue"`
	TotalInvestment  decimal.Decimal `json:"totalInvestment"`
	TotalGainLoss    decimal.Decimal `json:"totalGainLoss"`
	TotalGainLossPct decimal.Decimal `json:"totalGainLossPercentage"`
	Cash             decimal.Decimal `json:"cash"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	HeldPositions    int             `json:"heldPositions"`
}

// AllocationSlice is the held value of one asset type.
type AllocationSlice struct {
	Type  models.AssetType `json:"type"`
	Value decimal.Decimal  `json:"value"`
}

// Summarize computes totals for a snapshot. Gain/loss percentage is zero when
// nothing has been invested.
func Summarize(p models.Portfolio) Summary {
	s := Summary{
		TotalValue:      decimal.Zero,
		TotalInvestment: decimal.Zero,
		Cash:            p.Cash,
	}
	for _, pos := range p.Positions {
		if !pos.Held() {
			continue
		}
		s.HeldPositions++
		s.TotalValue = s.TotalValue.Add(pos.Value())
		s.TotalInvestment = s.TotalInvestment.Add(pos.Invested())
	}
	s.TotalGainLoss = s.TotalValue.Sub(s.TotalInvestment)
	s.TotalGainLossPct = decimal.Zero
	if s.TotalInvestment.IsPositive() {
		s.TotalGainLossPct = s.TotalGainLoss.Div(s.TotalInvestment).Mul(hundred)
	}
	s.NetWorth = s.Cash.Add(s.TotalValue)
	return s
}

// Allocate groups held value by asset type, stocks first.
func Allocate(p models.Portfolio) []AllocationSlice {
	totals := map[models.AssetType]decimal.Decimal{}
	for _, pos := range p.Positions {
		if pos.Held() {
			totals[pos.Type] = totals[pos.Type].Add(pos.Value())
		}
	}
	var out []AllocationSlice
	for _, t := range []models.AssetType{models.AssetStock, models.AssetMutualFund} {
		if v, ok := totals[t]; ok {
			out = append(out, AllocationSlice{Type: t, Value: v})
		}
	}
	return out
}

// Summary returns the current totals.
func (s *Service) Summary() Summary {
	return Summarize(s.Snapshot())
}

// Allocation returns the current value split by asset type.
func (s *Service) Allocation() []AllocationSlice {
	return Allocate(s.Snapshot())
}
