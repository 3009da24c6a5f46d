package common

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency every ledger is kept in.
const DefaultCurrency = money.INR

// FormatMoney renders an amount with the currency's symbol, grouping and
// fraction digits, e.g. 71494.5 INR -> "₹71,494.50".
func FormatMoney(v decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	// money.New never returns a nil currency, unknown codes get a bare formatter
	cur := *money.New(0, currency).Currency()
	minor := v.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatSignedMoney formats an amount with an explicit +/- prefix.
func FormatSignedMoney(v decimal.Decimal, currency string) string {
	if v.IsNegative() {
		return FormatMoney(v, currency)
	}
	return "+" + FormatMoney(v, currency)
}

// FormatSignedPct formats a percentage with +/- prefix and two decimals.
func FormatSignedPct(v decimal.Decimal) string {
	if v.IsNegative() {
		return fmt.Sprintf("%s%%", v.StringFixed(2))
	}
	return fmt.Sprintf("+%s%%", v.StringFixed(2))
}
