// Package payment validates the simulated card and UPI payments that top up
// virtual cash. No money moves; a valid request only becomes a deposit.
package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/shopspring/decimal"
)

// Method is how the mock payment is made.
type Method string

const (
	Card Method = "card"
	UPI  Method = "upi"
)

var (
	ErrInvalidAmount = errors.New("Please enter a valid amount greater than zero.")
	ErrInvalidCard   = errors.New("Please enter valid card information.")
	ErrInvalidOTP    = errors.New("Please enter a valid 6-digit OTP.")
	ErrInvalidUTR    = errors.New("Please enter a valid UTR number (usually 12 digits).")
	ErrInvalidMethod = errors.New("Please choose card or UPI.")
)

const (
	minCardDigits = 16
	minExpiryLen  = 5
	minCVVDigits  = 3
	minOTPDigits  = 6
	minUTRLen     = 12
)

// Details carries the method-specific fields. Only the ones for the chosen
// method are checked.
type Details struct {
	CardNumber string `json:"cardNumber,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	OTP        string `json:"otp,omitempty"`
	UTR        string `json:"utr,omitempty"`
}

// CashRequest is a validated add-cash payment.
type CashRequest struct {
	amount decimal.Decimal
	method Method
}

// ParseMethod accepts "card" or "upi" in any case.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case Card:
		return Card, nil
	case UPI:
		return UPI, nil
	}
	return "", ErrInvalidMethod
}

// NewCashRequest validates the amount and the details for the method.
func NewCashRequest(amount decimal.Decimal, method Method, d Details) (CashRequest, error) {
	if !amount.IsPositive() {
		return CashRequest{}, ErrInvalidAmount
	}
	switch method {
	case Card:
		if digits(d.CardNumber) < minCardDigits ||
			len(strings.TrimSpace(d.Expiry)) < minExpiryLen ||
			digits(d.CVV) < minCVVDigits {
			return CashRequest{}, ErrInvalidCard
		}
		if digits(d.OTP) < minOTPDigits {
			return CashRequest{}, ErrInvalidOTP
		}
	case UPI:
		if len(strings.TrimSpace(d.UTR)) < minUTRLen {
			return CashRequest{}, ErrInvalidUTR
		}
	default:
		return CashRequest{}, ErrInvalidMethod
	}
	return CashRequest{amount: amount, method: method}, nil
}

func (r CashRequest) Amount() decimal.Decimal { return r.amount }
func (r CashRequest) Method() Method          { return r.method }

// Deposit converts the payment into a portfolio deposit.
func (r CashRequest) Deposit() (portfolio.Deposit, error) {
	return portfolio.NewDeposit(r.amount)
}

// Receipt is the user-facing confirmation line.
func (r CashRequest) Receipt(currency string) string {
	return fmt.Sprintf("%s has been added to your virtual cash.", common.FormatMoney(r.amount, currency))
}

func digits(s string) int {
	n := 0
	for _, c := range s {
		if c >= '0' && c <= '9' {
			n++
		}
	}
	return n
}
