package models

import "github.com/shopspring/decimal"

// TransactionType is the direction of a budget transaction.
type TransactionType string

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

// Valid reports whether t is Income or Expense.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction is an append-only budget entry. Date is YYYY-MM-DD.
type Transaction struct {
	ID       string          `json:"id"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
}

// Goal is a savings target. SavedAmount never decreases and never exceeds TargetAmount.
type Goal struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	SavedAmount  decimal.Decimal `json:"savedAmount"`
}

// Remaining is how much is still needed to reach the target.
func (g Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.SavedAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Progress is saved/target as a whole percentage.
func (g Goal) Progress() int {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	return int(g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// Budget is the persisted snapshot of a user's transactions and goals.
type Budget struct {
	Transactions []Transaction `json:"transactions"`
	Goals        []Goal        `json:"goals"`
}

// Clone returns a deep copy of b.
func (b Budget) Clone() Budget {
	out := Budget{
		Transactions: make([]Transaction, len(b.Transactions)),
		Goals:        make([]Goal, len(b.Goals)),
	}
	copy(out.Transactions, b.Transactions)
	copy(out.Goals, b.Goals)
	return out
}
