// Package budget tracks income and expense transactions and savings goals.
package budget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the transaction date format.
const DateLayout = "2006-01-02"

// Totals are derived from the transactions and goals on every read.
type Totals struct {
	Income      decimal.Decimal `json:"totalIncome"`
	Expense     decimal.Decimal `json:"totalExpense"`
	Balance     decimal.Decimal `json:"balance"`
	Saved       decimal.Decimal `json:"totalSaved"`
	Unallocated decimal.Decimal `json:"unallocatedBalance"`
}

// Allocation is the amount AllocateSavings moved into one goal.
type Allocation struct {
	GoalID string          `json:"goalId"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// AllocationResult summarizes one AllocateSavings run.
type AllocationResult struct {
	Allocations []Allocation    `json:"allocations"`
	Total       decimal.Decimal `json:"total"`
}

// Service owns one user's budget. writeMu orders mutate-then-save so an
// older snapshot never overwrites a newer one; take it before mu.
type Service struct {
	writeMu sync.Mutex
	mu      sync.Mutex
	uid     string
	state   models.Budget
	store   interfaces.BudgetStore
	logger  *common.Logger

	now   func() time.Time
	newID func() string
}

// NewService wraps an already loaded snapshot.
func NewService(uid string, initial models.Budget, store interfaces.BudgetStore, logger *common.Logger) *Service {
	if store == nil || logger == nil {
		panic("budget: store and logger are required")
	}
	return &Service{
		uid:    uid,
		state:  initial.Clone(),
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Open loads the user's snapshot, falling back to seed() when it is missing or unreadable.
func Open(ctx context.Context, uid string, store interfaces.BudgetStore, seed func() models.Budget, logger *common.Logger) *Service {
	snap, err := store.LoadBudget(ctx, uid)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			logger.Warn().Str("uid", uid).Err(err).Msg("budget snapshot unreadable, using seed data")
		}
		snap = seed()
	}
	return NewService(uid, snap, store, logger)
}

// AddTransaction appends a transaction dated today.
func (s *Service) AddTransaction(ctx context.Context, req TransactionRequest) models.Transaction {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	tx := models.Transaction{
		ID:       s.newID(),
		Type:     req.txType,
		Category: req.category,
		Amount:   req.amount,
		Date:     s.now().Format(DateLayout),
	}
	s.state.Transactions = append(s.state.Transactions, tx)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().
		Str("uid", s.uid).
		Str("type", string(tx.Type)).
		Str("category", tx.Category).
		Str("amount", tx.Amount.String()).
		Msg("transaction added")
	s.persist(ctx, snap)
	return tx
}

// AddGoal appends a goal with nothing saved.
func (s *Service) AddGoal(ctx context.Context, req GoalRequest) models.Goal {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	g := models.Goal{
		ID:           s.newID(),
		Name:         req.name,
		TargetAmount: req.target,
		SavedAmount:  decimal.Zero,
	}
	s.state.Goals = append(s.state.Goals, g)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().Str("uid", s.uid).Str("goal", g.Name).Msg("goal added")
	s.persist(ctx, snap)
	return g
}

// AddContribution tops up a goal, capped at its target. It returns false
// without mutating anything when the goal does not exist.
func (s *Service) AddContribution(ctx context.Context, goalID string, c Contribution) (models.Goal, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	idx := s.goalIndex(goalID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Goal{}, false
	}
	g := s.state.Goals[idx]
	// a snapshot saved past its target keeps its amount
	if g.SavedAmount.LessThan(g.TargetAmount) {
		g.SavedAmount = decimal.Min(g.TargetAmount, g.SavedAmount.Add(c.Amount()))
	}
	s.state.Goals[idx] = g
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return g, true
}

// AllocateSavings fills goals from the unallocated balance in insertion
// order. Each unfinished goal takes as much as it still needs until the pool
// runs out. Nothing happens when the unallocated balance is not positive.
func (s *Service) AllocateSavings(ctx context.Context) AllocationResult {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	result := AllocationResult{Total: decimal.Zero}
	pool := totals(s.state).Unallocated
	if !pool.IsPositive() {
		s.mu.Unlock()
		return result
	}

	for i, g := range s.state.Goals {
		if !pool.IsPositive() {
			break
		}
		need := g.Remaining()
		if !need.IsPositive() {
			continue
		}
		amount := decimal.Min(need, pool)
		s.state.Goals[i].SavedAmount = g.SavedAmount.Add(amount)
		pool = pool.Sub(amount)
		result.Total = result.Total.Add(amount)
		result.Allocations = append(result.Allocations, Allocation{GoalID: g.ID, Name: g.Name, Amount: amount})
	}
	snap := s.state.Clone()
	s.mu.Unlock()

	if result.Total.IsPositive() {
		s.logger.Info().
			Str("uid", s.uid).
			Str("allocated", result.Total.String()).
			Int("goals", len(result.Allocations)).
			Msg("savings allocated to goals")
		s.persist(ctx, snap)
	}
	return result
}

// Totals returns the derived totals.
func (s *Service) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totals(s.state)
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() models.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Service) Transactions() []models.Transaction { return s.Snapshot().Transactions }
func (s *Service) Goals() []models.Goal               { return s.Snapshot().Goals }

func totals(b models.Budget) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero, Saved: decimal.Zero}
	for _, tx := range b.Transactions {
		switch tx.Type {
		case models.Income:
			t.Income = t.Income.Add(tx.Amount)
		case models.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	for _, g := range b.Goals {
		t.Saved = t.Saved.Add(g.SavedAmount)
	}
	t.Balance = t.Income.Sub(t.Expense)
	t.Unallocated = decimal.Zero
	if t.Balance.IsPositive() {
		t.Unallocated = decimal.Max(decimal.Zero, t.Balance.Sub(t.Saved))
	}
	return t
}

// goalIndex must be called with mu held.
func (s *Service) goalIndex(id string) int {
	for i, g := range s.state.Goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persist(ctx context.Context, snap models.Budget) {
	if err := s.store.SaveBudget(ctx, s.uid, snap); err != nil {
		s.logger.Error().Str("uid", s.uid).Err(err).Msg("failed to save budget")
	}
}
