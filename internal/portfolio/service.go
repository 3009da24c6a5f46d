// Package portfolio is the simulated trading ledger: tracked positions,
// a virtual cash balance and atomic buy/sell.
package portfolio

import (
	"context"
	"errors"
	"sync"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/shopspring/decimal"
)

// Reason explains a rejected trade.
type Reason string

const (
	ReasonUnknownAsset         Reason = "unknown_asset"
	ReasonInsufficientFunds    Reason = "insufficient_funds"
	ReasonInsufficientQuantity Reason = "insufficient_quantity"
)

var reasonMessages = map[Reason]string{
	ReasonUnknownAsset:         "This asset is not tracked in your portfolio.",
	ReasonInsufficientFunds:    "Not enough virtual cash for this purchase.",
	ReasonInsufficientQuantity: "You cannot sell more units than you hold.",
}

// TradeResult reports the outcome of Trade. A rejected trade changes nothing.
type TradeResult struct {
	Accepted bool            `json:"accepted"`
	Reason   Reason          `json:"reason,omitempty"`
	Message  string          `json:"message"`
	Action   Action          `json:"action"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"` // cost of a buy, proceeds of a sell
	Position models.Position `json:"position"`
	Cash     decimal.Decimal `json:"cash"`
}

// PriceSource supplies current prices by ticker.
type PriceSource interface {
	Quote(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Service owns one user's portfolio. All mutations happen under mu and are
// persisted afterwards from a copy; persistence failures are logged only.
// writeMu is held from mutation through save, so snapshots reach the store
// in the order they were taken. Lock order: writeMu, then mu.
type Service struct {
	writeMu sync.Mutex
	mu      sync.Mutex
	uid     string
	state   models.Portfolio
	store   interfaces.PortfolioStore
	logger  *common.Logger
}

// NewService wraps an already loaded snapshot.
func NewService(uid string, initial models.Portfolio, store interfaces.PortfolioStore, logger *common.Logger) *Service {
	if store == nil || logger == nil {
		panic("portfolio: store and logger are required")
	}
	return &Service{uid: uid, state: initial.Clone(), store: store, logger: logger}
}

// Open loads the user's snapshot, falling back to seed() when it is missing or unreadable.
func Open(ctx context.Context, uid string, store interfaces.PortfolioStore, seed func() models.Portfolio, logger *common.Logger) *Service {
	snap, err := store.LoadPortfolio(ctx, uid)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			logger.Warn().Str("uid", uid).Err(err).Msg("portfolio snapshot unreadable, using seed data")
		}
		snap = seed()
	}
	return NewService(uid, snap, store, logger)
}

// Trade applies a buy or sell atomically.
func (s *Service) Trade(ctx context.Context, order TradeOrder) TradeResult {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()

	result := TradeResult{Action: order.Action(), Quantity: order.Quantity()}
	idx := s.indexOf(order.AssetID())
	if idx < 0 {
		result.Cash = s.state.Cash
		s.mu.Unlock()
		return reject(result, ReasonUnknownAsset)
	}

	pos := s.state.Positions[idx]
	qty := decimal.NewFromInt(order.Quantity())
	amount := pos.CurrentPrice.Mul(qty)

	switch order.Action() {
	case Buy:
		if amount.GreaterThan(s.state.Cash) {
			result.Position, result.Cash = pos, s.state.Cash
			s.mu.Unlock()
			return reject(result, ReasonInsufficientFunds)
		}
		newQty := pos.Quantity + order.Quantity()
		pos.AveragePrice = pos.AveragePrice.Mul(decimal.NewFromInt(pos.Quantity)).Add(amount).Div(decimal.NewFromInt(newQty))
		pos.Quantity = newQty
		s.state.Cash = s.state.Cash.Sub(amount)
	case Sell:
		if order.Quantity() > pos.Quantity {
			result.Position, result.Cash = pos, s.state.Cash
			s.mu.Unlock()
			return reject(result, ReasonInsufficientQuantity)
		}
		pos.Quantity -= order.Quantity()
		if pos.Quantity == 0 {
			pos.AveragePrice = decimal.Zero
		}
		s.state.Cash = s.state.Cash.Add(amount)
	}

	s.state.Positions[idx] = pos
	result.Accepted = true
	result.Amount = amount
	result.Position = pos
	result.Cash = s.state.Cash
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().
		Str("uid", s.uid).
		Str("asset", pos.ID).
		Str("action", string(order.Action())).
		Int64("quantity", order.Quantity()).
		Str("amount", amount.String()).
		Msg("trade executed")

	s.persist(ctx, snap)
	return result
}

func reject(r TradeResult, reason Reason) TradeResult {
	r.Reason = reason
	r.Message = reasonMessages[reason]
	return r
}

// AddAsset starts tracking an asset with quantity 0. It is a no-op (returning
// the existing position and false) when the asset is already tracked.
func (s *Service) AddAsset(ctx context.Context, a NewAsset) (models.Position, bool, error) {
	if err := a.Validate(); err != nil {
		return models.Position{}, false, err
	}
	id := normalizeID(a.Ticker)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	if idx := s.indexOf(id); idx >= 0 {
		pos := s.state.Positions[idx]
		s.mu.Unlock()
		return pos, false, nil
	}
	name := a.Name
	if name == "" {
		name = id
	}
	pos := models.Position{
		ID:           id,
		Ticker:       id,
		Name:         name,
		Type:         a.Type,
		Sector:       a.Sector,
		CurrentPrice: a.Price,
	}
	s.state.Positions = append(s.state.Positions, pos)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().Str("uid", s.uid).Str("asset", id).Msg("asset added to portfolio")
	s.persist(ctx, snap)
	return pos, true, nil
}

// HasAsset reports whether the asset is tracked.
func (s *Service) HasAsset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(normalizeID(id)) >= 0
}

// AddCash credits a deposit and returns the new balance.
func (s *Service) AddCash(ctx context.Context, d Deposit) decimal.Decimal {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.state.Contributed = s.state.Capital().Add(d.Amount())
	s.state.Cash = s.state.Cash.Add(d.Amount())
	cash := s.state.Cash
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().Str("uid", s.uid).Str("amount", d.Amount().String()).Msg("virtual cash added")
	s.persist(ctx, snap)
	return cash
}

// UpdatePrices sets current prices for the given tickers and returns how many
// tracked positions changed. Negative prices are ignored.
func (s *Service) UpdatePrices(ctx context.Context, prices map[string]decimal.Decimal) int {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	updated := 0
	for i, p := range s.state.Positions {
		price, ok := prices[p.Ticker]
		if !ok || price.IsNegative() || price.Equal(p.CurrentPrice) {
			continue
		}
		s.state.Positions[i].CurrentPrice = price
		updated++
	}
	snap := s.state.Clone()
	s.mu.Unlock()

	if updated > 0 {
		s.persist(ctx, snap)
	}
	return updated
}

// RefreshPrices pulls a quote for every tracked ticker. Failed quotes are
// logged and skipped.
func (s *Service) RefreshPrices(ctx context.Context, src PriceSource) int {
	prices := make(map[string]decimal.Decimal)
	for _, p := range s.Tracked() {
		price, err := src.Quote(ctx, p.Ticker)
		if err != nil {
			s.logger.Warn().Str("ticker", p.Ticker).Err(err).Msg("quote unavailable, keeping last price")
			continue
		}
		prices[p.Ticker] = price
	}
	return s.UpdatePrices(ctx, prices)
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() models.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Cash returns the current cash balance.
func (s *Service) Cash() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Cash
}

// Tracked lists every position, including fully sold ones.
func (s *Service) Tracked() []models.Position {
	return s.Snapshot().Positions
}

// Held lists positions with quantity > 0.
func (s *Service) Held() []models.Position {
	var held []models.Position
	for _, p := range s.Tracked() {
		if p.Held() {
			held = append(held, p)
		}
	}
	return held
}

// Position returns the tracked position with the given id.
func (s *Service) Position(id string) (models.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(normalizeID(id))
	if idx < 0 {
		return models.Position{}, false
	}
	return s.state.Positions[idx], true
}

// MaxBuyable is how many whole units the cash balance can buy at the current price.
func (s *Service) MaxBuyable(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(normalizeID(id))
	if idx < 0 {
		return 0
	}
	price := s.state.Positions[idx].CurrentPrice
	if !price.IsPositive() {
		return 0
	}
	return s.state.Cash.Div(price).Floor().IntPart()
}

// indexOf must be called with mu held.
func (s *Service) indexOf(id string) int {
	for i, p := range s.state.Positions {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persist(ctx context.Context, snap models.Portfolio) {
	if err := s.store.SavePortfolio(ctx, s.uid, snap); err != nil {
		s.logger.Error().Str("uid", s.uid).Err(err).Msg("failed to save portfolio")
	}
}
