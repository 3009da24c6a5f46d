package handlers

import (
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/budget"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/shopspring/decimal"
)

// BudgetHandler serves transactions and savings goals.
type BudgetHandler struct {
	logger  *common.Logger
	ledgers *ledgers.Registry
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(logger *common.Logger, reg *ledgers.Registry) *BudgetHandler {
	return &BudgetHandler{logger: logger, ledgers: reg}
}

type budgetResponse struct {
	Totals       budget.Totals        `json:"totals"`
	Transactions []models.Transaction `json:"transactions"`
	Goals        []models.Goal        `json:"goals"`
}

func budgetView(svc *budget.Service) budgetResponse {
	snap := svc.Snapshot()
	return budgetResponse{Totals: svc.Totals(), Transactions: snap.Transactions, Goals: snap.Goals}
}

// HandleBudget handles GET /api/budget.
func (h *BudgetHandler) HandleBudget(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, budgetView(ws.Budget))
}

// HandleAddTransaction handles POST /api/budget/transactions.
func (h *BudgetHandler) HandleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	var req struct {
		Type     string          `json:"type"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	txType, err := budget.ParseTransactionType(req.Type)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	txReq, err := budget.NewTransactionRequest(txType, req.Category, req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx := ws.Budget.AddTransaction(r.Context(), txReq)
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"transaction": tx,
		"totals":      ws.Budget.Totals(),
	})
}

// HandleAddGoal handles POST /api/budget/goals.
func (h *BudgetHandler) HandleAddGoal(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	var req struct {
		Name         string          `json:"name"`
		TargetAmount decimal.Decimal `json:"targetAmount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	goalReq, err := budget.NewGoalRequest(req.Name, req.TargetAmount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"goal": ws.Budget.AddGoal(r.Context(), goalReq)})
}

// HandleContribute handles POST /api/budget/goals/{id}/contribute.
func (h *BudgetHandler) HandleContribute(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	c, err := budget.NewContribution(req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal, found := ws.Budget.AddContribution(r.Context(), r.PathValue("id"), c)
	if !found {
		WriteError(w, http.StatusNotFound, "Goal not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"goal": goal, "totals": ws.Budget.Totals()})
}

// HandleAllocate handles POST /api/budget/allocate.
func (h *BudgetHandler) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	result := ws.Budget.AllocateSavings(r.Context())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"allocation": result,
		"budget":     budgetView(ws.Budget),
	})
}
