package portfolio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/shopspring/decimal"
)

// Action is the side of a trade.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Validation errors returned by the request constructors.
var (
	ErrMissingAsset    = errors.New("asset id is required")
	ErrInvalidQuantity = errors.New("quantity must be a positive whole number")
	ErrInvalidAction   = errors.New("action must be buy or sell")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidType     = errors.New("asset type must be Stock or Mutual Fund")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// ParseAction accepts "buy" or "sell" in any case.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("%w (got %q)", ErrInvalidAction, s)
}

// normalizeID maps user input onto the ticker form used as position id.
func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// TradeOrder is a validated buy or sell request.
type TradeOrder struct {
	assetID  string
	quantity int64
	action   Action
}

// NewTradeOrder validates the raw request fields.
func NewTradeOrder(assetID string, quantity int64, action Action) (TradeOrder, error) {
	id := normalizeID(assetID)
	if id == "" {
		return TradeOrder{}, ErrMissingAsset
	}
	if quantity <= 0 {
		return TradeOrder{}, ErrInvalidQuantity
	}
	if action != Buy && action != Sell {
		return TradeOrder{}, ErrInvalidAction
	}
	return TradeOrder{assetID: id, quantity: quantity, action: action}, nil
}

func (o TradeOrder) AssetID() string { return o.assetID }
func (o TradeOrder) Quantity() int64 { return o.quantity }
func (o TradeOrder) Action() Action  { return o.action }

// Deposit is a validated add-cash request.
type Deposit struct {
	amount decimal.Decimal
}

// NewDeposit requires amount > 0.
func NewDeposit(amount decimal.Decimal) (Deposit, error) {
	if !amount.IsPositive() {
		return Deposit{}, ErrInvalidAmount
	}
	return Deposit{amount: amount}, nil
}

func (d Deposit) Amount() decimal.Decimal { return d.amount }

// NewAsset describes a position to start tracking.
type NewAsset struct {
	Ticker string
	Name   string
	Type   models.AssetType
	Sector string
	Price  decimal.Decimal
}

// Validate checks the mandatory fields.
func (a NewAsset) Validate() error {
	if normalizeID(a.Ticker) == "" {
		return ErrMissingAsset
	}
	if !a.Type.Valid() {
		return ErrInvalidType
	}
	if a.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}
