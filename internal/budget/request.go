package budget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidType     = errors.New("type must be Income or Expense")
	ErrMissingCategory = errors.New("category is required")
	ErrMissingName     = errors.New("goal name is required")
	ErrInvalidTarget   = errors.New("target amount must be greater than zero")
)

// TransactionRequest is a validated new transaction.
type TransactionRequest struct {
	txType   models.TransactionType
	category string
	amount   decimal.Decimal
}

// ParseTransactionType accepts "income"/"expense" in any case.
func ParseTransactionType(s string) (models.TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return models.Income, nil
	case "expense":
		return models.Expense, nil
	}
	return "", fmt.Errorf("%w (got %q)", ErrInvalidType, s)
}

// NewTransactionRequest validates type, category and amount.
func NewTransactionRequest(txType models.TransactionType, category string, amount decimal.Decimal) (TransactionRequest, error) {
	if !txType.Valid() {
		return TransactionRequest{}, ErrInvalidType
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return TransactionRequest{}, ErrMissingCategory
	}
	if !amount.IsPositive() {
		return TransactionRequest{}, ErrInvalidAmount
	}
	return TransactionRequest{txType: txType, category: category, amount: amount}, nil
}

// GoalRequest is a validated new savings goal.
type GoalRequest struct {
	name   string
	target decimal.Decimal
}

// NewGoalRequest requires a name and a positive target.
func NewGoalRequest(name string, target decimal.Decimal) (GoalRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GoalRequest{}, ErrMissingName
	}
	if !target.IsPositive() {
		return GoalRequest{}, ErrInvalidTarget
	}
	return GoalRequest{name: name, target: target}, nil
}

// Contribution is a validated manual top-up of a goal.
type Contribution struct {
	amount decimal.Decimal
}

// NewContribution requires amount > 0.
func NewContribution(amount decimal.Decimal) (Contribution, error) {
	if !amount.IsPositive() {
		return Contribution{}, ErrInvalidAmount
	}
	return Contribution{amount: amount}, nil
}

func (c Contribution) Amount() decimal.Decimal { return c.amount }
