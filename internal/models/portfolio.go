package models

import "github.com/shopspring/decimal"

// AssetType is the kind of instrument a position tracks.
type AssetType string

const (
	AssetStock      AssetType = "Stock"
	AssetMutualFund AssetType = "Mutual Fund"
)

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	return t == AssetStock || t == AssetMutualFund
}

// Position is a tracked asset. AveragePrice is only meaningful while
// Quantity > 0 and is reset to zero when the position is fully sold.
type Position struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Ticker       string          `json:"ticker"`
	Type         AssetType       `json:"type"`
	Sector       string          `json:"sector,omitempty"`
	Quantity     int64           `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

// Held reports whether the position has units.
func (p Position) Held() bool { return p.Quantity > 0 }

// Value is quantity x current price.
func (p Position) Value() decimal.Decimal {
	return p.CurrentPrice.Mul(decimal.NewFromInt(p.Quantity))
}

// Invested is quantity x average price.
func (p Position) Invested() decimal.Decimal {
	return p.AveragePrice.Mul(decimal.NewFromInt(p.Quantity))
}

// Portfolio is the persisted snapshot of a user's positions and cash.
// Contributed is the money put in: opening cash, the cost of any seeded
// holdings and every deposit. Trades never change it.
type Portfolio struct {
	Positions   []Position      `json:"positions"`
	Cash        decimal.Decimal `json:"cash"`
	Contributed decimal.Decimal `json:"contributed"`
}

// Clone returns a deep copy of p.
func (p Portfolio) Clone() Portfolio {
	out := Portfolio{Cash: p.Cash, Contributed: p.Contributed, Positions: make([]Position, len(p.Positions))}
	copy(out.Positions, p.Positions)
	return out
}

// Capital is the baseline gains are measured against. Snapshots saved
// without Contributed fall back to cash plus the cost of held positions.
func (p Portfolio) Capital() decimal.Decimal {
	if p.Contributed.IsPositive() {
		return p.Contributed
	}
	capital := p.Cash
	for _, pos := range p.Positions {
		capital = capital.Add(pos.Invested())
	}
	return capital
}
