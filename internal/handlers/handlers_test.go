package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/auth"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/config"
	"github.com/bobmcallan/paisa-buddy/internal/content"
	"github.com/bobmcallan/paisa-buddy/internal/fraud"
	"github.com/bobmcallan/paisa-buddy/internal/leaderboard"
	"github.com/bobmcallan/paisa-buddy/internal/learning"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
	"github.com/bobmcallan/paisa-buddy/internal/market"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/seed"
	"github.com/bobmcallan/paisa-buddy/internal/storage"
	"github.com/bobmcallan/paisa-buddy/internal/storage/memory"
	"github.com/shopspring/decimal"
)

type testEnv struct {
	store     *storage.SnapshotStore
	ledgers   *ledgers.Registry
	portfolio *PortfolioHandler
	budget    *BudgetHandler
	learning  *LearningHandler
	fraud     *FraudHandler
	board     *LeaderboardHandler
	auth      *AuthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := common.NewSilentLogger()
	kv := memory.NewKVStorage()
	store := storage.NewSnapshotStore(kv)
	reg := ledgers.NewRegistry(store, decimal.NewFromInt(100000), logger)
	catalog := market.NewCatalog(seed.Listings())
	sessions := auth.NewSessions(auth.NewTokens([]byte("test-secret"), time.Hour, "paisa-buddy"), "", false)

	return &testEnv{
		store:     store,
		ledgers:   reg,
		portfolio: NewPortfolioHandler(logger, reg, catalog, market.NewCatalogFeed(catalog), "INR"),
		budget:    NewBudgetHandler(logger, reg),
		learning:  NewLearningHandler(logger, reg),
		fraud:     NewFraudHandler(fraud.NewQuiz(seed.Challenges()), reg),
		board:     NewLeaderboardHandler(reg, store, seed.Peers(), seed.PlayerAvatar),
		auth:      NewAuthHandler(logger, auth.NewLocalProvider(kv, store, logger), store, sessions),
	}
}

// request builds a request acting as uid; an empty uid leaves it anonymous.
func request(method, path, uid string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if uid != "" {
		req = req.WithContext(auth.WithUser(req.Context(), uid))
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "error" {
		t.Errorf("expected status error, got %q", body["status"])
	}
	return body["error"]
}

func TestHealthHandler_ReturnsOK(t *testing.T) {
	env := newTestEnv(t)
	env.store.SaveProfile(t.Context(), models.Profile{UID: "u1"})
	env.ledgers.Workspace(t.Context(), "u1")
	handler := NewHealthHandler(common.NewSilentLogger(), env.store, env.ledgers)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	var body struct {
		Status     string `json:"status"`
		Accounts   int    `json:"accounts"`
		Workspaces int    `json:"active_workspaces"`
	}
	decode(t, w, &body)
	if body.Status != "ok" || body.Accounts != 1 || body.Workspaces != 1 {
		t.Errorf("unexpected health body %+v", body)
	}
}

type brokenCounter struct{}

func (brokenCounter) CountProfiles(context.Context) (int, error) {
	return 0, errors.New("disk gone")
}

func TestHealthHandler_StoreFailure(t *testing.T) {
	handler := NewHealthHandler(common.NewSilentLogger(), brokenCounter{}, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "disk gone") {
		t.Error("storage error text must not reach the client")
	}
}

func TestHealthHandler_RejectsNonGET(t *testing.T) {
	handler := NewHealthHandler(common.NewSilentLogger(), nil, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/health", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestVersionHandler_ReturnsJSON(t *testing.T) {
	w := httptest.NewRecorder()
	NewVersionHandler(config.NewDefaultConfig()).ServeHTTP(w, httptest.NewRequest("GET", "/api/version", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
	var body map[string]string
	decode(t, w, &body)
	for _, field := range []string{"version", "build", "git_commit"} {
		if _, ok := body[field]; !ok {
			t.Errorf("expected %s field in response", field)
		}
	}
	if body["currency"] != "INR" || body["starting_cash"] != "100000" {
		t.Errorf("expected ledger settings, got %v", body)
	}
}

func TestDecodeJSON_RejectsMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest("POST", "/api/portfolio/trade", strings.NewReader("{not json"))
	req = req.WithContext(auth.WithUser(req.Context(), "u1"))

	w := serve(env.portfolio.HandleTrade, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestLedgerHandlers_RequireUser(t *testing.T) {
	env := newTestEnv(t)
	handlers := map[string]http.HandlerFunc{
		"portfolio":   env.portfolio.HandlePortfolio,
		"budget":      env.budget.HandleBudget,
		"modules":     env.learning.HandleModules,
		"leaderboard": env.board.HandleLeaderboard,
	}
	for name, h := range handlers {
		w := serve(h, request("GET", "/api/"+name, "", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without a user, got %d", name, w.Code)
		}
	}
	if env.ledgers.Len() != 0 {
		t.Error("anonymous requests must not create workspaces")
	}
}

// --- portfolio ---

type portfolioBody struct {
	Summary struct {
		Cash          decimal.Decimal `json:"cash"`
		NetWorth      decimal.Decimal `json:"netWorth"`
		HeldPositions int             `json:"heldPositions"`
	} `json:"summary"`
	Allocation []struct {
		Type string `json:"type"`
	} `json:"allocation"`
	Positions []struct {
		ID       string `json:"id"`
		Quantity int64  `json:"quantity"`
	} `json:"positions"`
	Currency string `json:"currency"`
}

func TestHandlePortfolio_ReturnsSeededView(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.portfolio.HandlePortfolio, request("GET", "/api/portfolio", "u1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body portfolioBody
	decode(t, w, &body)

	if !body.Summary.Cash.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("expected cash 100000, got %s", body.Summary.Cash)
	}
	if body.Summary.HeldPositions != 5 || len(body.Positions) != 5 {
		t.Errorf("expected 5 held positions, got %d/%d", body.Summary.HeldPositions, len(body.Positions))
	}
	if len(body.Allocation) != 2 || body.Allocation[0].Type != "Stock" {
		t.Errorf("expected stock then mutual fund allocation, got %+v", body.Allocation)
	}
	if body.Currency != "INR" {
		t.Errorf("expected INR, got %s", body.Currency)
	}
}

func TestHandleTrade_BuyAndRejectedSell(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.portfolio.HandleTrade, request("POST", "/api/portfolio/trade", "u1",
		map[string]interface{}{"assetId": "reliance", "quantity": 2, "action": "BUY"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		Accepted bool            `json:"accepted"`
		Amount   decimal.Decimal `json:"amount"`
		Cash     decimal.Decimal `json:"cash"`
		Reason   string          `json:"reason"`
	}
	decode(t, w, &res)
	if !res.Accepted || !res.Amount.Equal(decimal.RequireFromString("5701.10")) {
		t.Errorf("unexpected buy result %+v", res)
	}
	if !res.Cash.Equal(decimal.RequireFromString("94298.90")) {
		t.Errorf("expected cash 94298.90, got %s", res.Cash)
	}

	w = serve(env.portfolio.HandleTrade, request("POST", "/api/portfolio/trade", "u1",
		map[string]interface{}{"assetId": "TCS", "quantity": 16, "action": "sell"}))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	res.Accepted = true
	decode(t, w, &res)
	if res.Accepted || res.Reason != "insufficient_quantity" {
		t.Errorf("expected insufficient_quantity rejection, got %+v", res)
	}
}

func TestHandleTrade_ValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	cases := []map[string]interface{}{
		{"assetId": "TCS", "quantity": 1, "action": "hold"},
		{"assetId": "TCS", "quantity": 0, "action": "buy"},
		{"assetId": "", "quantity": 1, "action": "buy"},
	}
	for _, body := range cases {
		w := serve(env.portfolio.HandleTrade, request("POST", "/api/portfolio/trade", "u1", body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", body, w.Code)
		}
	}
}

func TestHandleAddAsset(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.portfolio.HandleAddAsset, request("POST", "/api/portfolio/assets", "u1", map[string]string{"ticker": "infy"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = serve(env.portfolio.HandleAddAsset, request("POST", "/api/portfolio/assets", "u1", map[string]string{"ticker": "INFY"}))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for an already tracked asset, got %d", w.Code)
	}
	var body struct {
		Added bool `json:"added"`
	}
	decode(t, w, &body)
	if body.Added {
		t.Error("expected added=false on the second call")
	}

	w = serve(env.portfolio.HandleAddAsset, request("POST", "/api/portfolio/assets", "u1", map[string]string{"ticker": "NOPE"}))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unlisted ticker, got %d", w.Code)
	}
}

func TestHandleAddCash(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.portfolio.HandleAddCash, request("POST", "/api/portfolio/cash", "u1", map[string]interface{}{
		"amount":  "500",
		"method":  "upi",
		"details": map[string]string{"utr": "123456789012"},
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Cash    decimal.Decimal `json:"cash"`
		Message string          `json:"message"`
	}
	decode(t, w, &body)
	if !body.Cash.Equal(decimal.NewFromInt(100500)) {
		t.Errorf("expected cash 100500, got %s", body.Cash)
	}
	if !strings.Contains(body.Message, "500.00") {
		t.Errorf("expected receipt to mention the amount, got %q", body.Message)
	}

	w = serve(env.portfolio.HandleAddCash, request("POST", "/api/portfolio/cash", "u1", map[string]interface{}{
		"amount":  100,
		"method":  "card",
		"details": map[string]string{"cardNumber": "4111", "expiry": "12/30", "cvv": "123", "otp": "123456"},
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Please enter valid card information." {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandleAssets_Search(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.portfolio.HandleAssets, request("GET", "/api/assets?q=bank", "", nil))
	var body struct {
		Assets []market.Listing `json:"assets"`
	}
	decode(t, w, &body)
	if len(body.Assets) != 2 {
		t.Errorf("expected 2 bank listings, got %d", len(body.Assets))
	}

	w = serve(env.portfolio.HandleAssets, request("GET", "/api/assets?type=Mutual+Fund", "", nil))
	decode(t, w, &body)
	if len(body.Assets) != 3 {
		t.Errorf("expected 3 mutual funds, got %d", len(body.Assets))
	}

	w = serve(env.portfolio.HandleAssets, request("GET", "/api/assets?type=Crypto", "", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", w.Code)
	}
}

func TestHandleQuote(t *testing.T) {
	env := newTestEnv(t)

	req := request("GET", "/api/assets/TCS/quote", "", nil)
	req.SetPathValue("ticker", "TCS")
	w := serve(env.portfolio.HandleQuote, req)
	var body struct {
		Price decimal.Decimal `json:"price"`
	}
	decode(t, w, &body)
	if !body.Price.Equal(decimal.RequireFromString("3855.20")) {
		t.Errorf("expected 3855.20, got %s", body.Price)
	}

	req = request("GET", "/api/assets/XYZ/quote", "", nil)
	req.SetPathValue("ticker", "XYZ")
	if w := serve(env.portfolio.HandleQuote, req); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// --- budget ---

type totalsBody struct {
	Income      decimal.Decimal `json:"totalIncome"`
	Balance     decimal.Decimal `json:"balance"`
	Unallocated decimal.Decimal `json:"unallocatedBalance"`
}

func TestHandleBudget_Totals(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.budget.HandleBudget, request("GET", "/api/budget", "u1", nil))
	var body struct {
		Totals totalsBody `json:"totals"`
		Goals  []struct {
			ID string `json:"id"`
		} `json:"goals"`
	}
	decode(t, w, &body)
	if !body.Totals.Balance.Equal(decimal.NewFromInt(24000)) {
		t.Errorf("expected balance 24000, got %s", body.Totals.Balance)
	}
	if !body.Totals.Unallocated.IsZero() {
		t.Errorf("expected unallocated clamped to 0, got %s", body.Totals.Unallocated)
	}
	if len(body.Goals) != 2 {
		t.Errorf("expected 2 goals, got %d", len(body.Goals))
	}
}

func TestHandleAddTransaction_ThenAllocate(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.budget.HandleAddTransaction, request("POST", "/api/budget/transactions", "u1",
		map[string]interface{}{"type": "income", "category": "Bonus", "amount": 50000}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Totals totalsBody `json:"totals"`
	}
	decode(t, w, &created)
	if !created.Totals.Unallocated.Equal(decimal.NewFromInt(29000)) {
		t.Errorf("expected unallocated 29000, got %s", created.Totals.Unallocated)
	}

	w = serve(env.budget.HandleAllocate, request("POST", "/api/budget/allocate", "u1", nil))
	var alloc struct {
		Allocation struct {
			Total       decimal.Decimal `json:"total"`
			Allocations []struct {
				GoalID string          `json:"goalId"`
				Amount decimal.Decimal `json:"amount"`
			} `json:"allocations"`
		} `json:"allocation"`
	}
	decode(t, w, &alloc)
	if !alloc.Allocation.Total.Equal(decimal.NewFromInt(29000)) {
		t.Errorf("expected 29000 allocated, got %s", alloc.Allocation.Total)
	}
	if len(alloc.Allocation.Allocations) != 2 ||
		!alloc.Allocation.Allocations[0].Amount.Equal(decimal.NewFromInt(15000)) ||
		!alloc.Allocation.Allocations[1].Amount.Equal(decimal.NewFromInt(14000)) {
		t.Errorf("unexpected allocations %+v", alloc.Allocation.Allocations)
	}
}

func TestHandleAddTransaction_Validates(t *testing.T) {
	env := newTestEnv(t)
	cases := []map[string]interface{}{
		{"type": "Transfer", "category": "x", "amount": 10},
		{"type": "Expense", "category": " ", "amount": 10},
		{"type": "Expense", "category": "Food", "amount": -1},
	}
	for _, body := range cases {
		w := serve(env.budget.HandleAddTransaction, request("POST", "/api/budget/transactions", "u1", body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", body, w.Code)
		}
	}
}

func TestHandleContribute(t *testing.T) {
	env := newTestEnv(t)

	req := request("POST", "/api/budget/goals/1/contribute", "u1", map[string]string{"amount": "20000"})
	req.SetPathValue("id", "1")
	w := serve(env.budget.HandleContribute, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Goal struct {
			SavedAmount decimal.Decimal `json:"savedAmount"`
		} `json:"goal"`
	}
	decode(t, w, &body)
	if !body.Goal.SavedAmount.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("expected contribution capped at 25000, got %s", body.Goal.SavedAmount)
	}

	req = request("POST", "/api/budget/goals/99/contribute", "u1", map[string]string{"amount": "10"})
	req.SetPathValue("id", "99")
	if w := serve(env.budget.HandleContribute, req); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown goal, got %d", w.Code)
	}
}

func TestHandleAddGoal(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.budget.HandleAddGoal, request("POST", "/api/budget/goals", "u1",
		map[string]interface{}{"name": "Laptop", "targetAmount": 60000}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	w = serve(env.budget.HandleAddGoal, request("POST", "/api/budget/goals", "u1",
		map[string]interface{}{"name": "Laptop", "targetAmount": 0}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero target, got %d", w.Code)
	}
}

// --- learning ---

func moduleRequest(method, action, id string, body interface{}) *http.Request {
	req := request(method, "/api/learn/modules/"+id+action, "u1", body)
	req.SetPathValue("id", id)
	return req
}

func TestHandleModules_HidesAnswers(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.learning.HandleModules, request("GET", "/api/learn/modules", "u1", nil))
	var body struct {
		Modules []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Quiz   []struct {
				Answer string `json:"answer"`
			} `json:"quiz"`
		} `json:"modules"`
		Summary struct {
			Total int `json:"totalModules"`
		} `json:"summary"`
	}
	decode(t, w, &body)
	if body.Summary.Total != 6 || len(body.Modules) != 6 {
		t.Fatalf("expected 6 modules, got %d", len(body.Modules))
	}
	for _, m := range body.Modules {
		for _, q := range m.Quiz {
			if q.Answer != "" {
				t.Errorf("module %s leaks a quiz answer", m.ID)
			}
		}
	}
}

func TestLearningFlow_AnswerSubmitRetake(t *testing.T) {
	env := newTestEnv(t)
	const id = "budgeting-101"

	w := serve(env.learning.HandleAnswer, moduleRequest("PUT", "/answers", id,
		map[string]string{"questionId": "q1", "option": "Not an option"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid option, got %d", w.Code)
	}

	w = serve(env.learning.HandleSubmit, moduleRequest("POST", "/submit", id, nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an incomplete quiz, got %d", w.Code)
	}

	for q, option := range map[string]string{"q1": "To track and control money", "q2": "Savings"} {
		w = serve(env.learning.HandleAnswer, moduleRequest("PUT", "/answers", id,
			map[string]string{"questionId": q, "option": option}))
		if w.Code != http.StatusOK {
			t.Fatalf("answer %s: expected 200, got %d: %s", q, w.Code, w.Body.String())
		}
	}

	w = serve(env.learning.HandleSubmit, moduleRequest("POST", "/submit", id, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		Progress int    `json:"progress"`
		Status   string `json:"status"`
	}
	decode(t, w, &res)
	if res.Progress != 100 || res.Status != "Completed" {
		t.Errorf("expected completed at 100, got %+v", res)
	}

	if w := serve(env.learning.HandleSubmit, moduleRequest("POST", "/submit", id, nil)); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for a second submit, got %d", w.Code)
	}

	w = serve(env.learning.HandleRetake, moduleRequest("POST", "/retake", id, nil))
	var retaken struct {
		Progress int `json:"progress"`
	}
	decode(t, w, &retaken)
	if retaken.Progress != 0 {
		t.Errorf("expected retake to reset progress, got %d", retaken.Progress)
	}
}

func TestHandleModule_Unknown(t *testing.T) {
	env := newTestEnv(t)
	if w := serve(env.learning.HandleModule, moduleRequest("GET", "", "nope", nil)); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// --- fraud ---

func TestHandleChallenges_StripsCorrectness(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.fraud.HandleChallenges, request("GET", "/api/fraud/challenges", "", nil))
	if strings.Contains(w.Body.String(), `"correct":true`) || strings.Contains(w.Body.String(), "phishing attempt") {
		t.Errorf("public challenges leak answers: %s", w.Body.String())
	}
}

func TestHandleCheck(t *testing.T) {
	env := newTestEnv(t)

	check := func(id string, body interface{}) *httptest.ResponseRecorder {
		req := request("POST", "/api/fraud/challenges/"+id+"/check", "", body)
		req.SetPathValue("id", id)
		return serve(env.fraud.HandleCheck, req)
	}

	w := check("phishing-email", map[string]int{"option": 1})
	var verdict fraud.Verdict
	decode(t, w, &verdict)
	if !verdict.Correct || verdict.Feedback == "" {
		t.Errorf("expected a correct verdict with feedback, got %+v", verdict)
	}

	if w := check("phishing-email", map[string]int{"option": 9}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range option, got %d", w.Code)
	}
	if w := check("phishing-email", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a missing option, got %d", w.Code)
	}
	if w := check("nope", map[string]int{"option": 0}); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown challenge, got %d", w.Code)
	}
}

func TestHandleScore_RecordsSignedInChecks(t *testing.T) {
	env := newTestEnv(t)

	check := func(uid, id string, option int) {
		req := request("POST", "/api/fraud/challenges/"+id+"/check", uid, map[string]int{"option": option})
		req.SetPathValue("id", id)
		if w := serve(env.fraud.HandleCheck, req); w.Code != http.StatusOK {
			t.Fatalf("check %s: expected 200, got %d", id, w.Code)
		}
	}
	check("u1", "phishing-email", 0)
	check("u1", "phishing-email", 1)
	check("", "upi-fraud", 0)

	type scoreBody struct {
		Score    learning.Score `json:"score"`
		Progress int            `json:"progress"`
		Answered int            `json:"answered"`
	}
	var body scoreBody
	decode(t, serve(env.fraud.HandleScore, request("GET", "/api/fraud/score", "u1", nil)), &body)
	if body.Answered != 1 || body.Score.Correct != 1 || body.Score.Total != 3 {
		t.Errorf("expected the latest of u1's checks only, got %+v", body)
	}

	var other scoreBody
	decode(t, serve(env.fraud.HandleScore, request("GET", "/api/fraud/score", "u2", nil)), &other)
	if other.Answered != 0 || other.Score.Correct != 0 {
		t.Errorf("checks leaked across users: %+v", other)
	}

	if w := serve(env.fraud.HandleScore, request("GET", "/api/fraud/score", "", nil)); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 anonymously, got %d", w.Code)
	}

	serve(env.fraud.HandleResetScore, request("DELETE", "/api/fraud/score", "u1", nil))
	decode(t, serve(env.fraud.HandleScore, request("GET", "/api/fraud/score", "u1", nil)), &body)
	if body.Answered != 0 {
		t.Errorf("expected reset to clear checks, got %+v", body)
	}
}

func TestHandleMark(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.fraud.HandleMark, request("POST", "/api/fraud/score", "", map[string]interface{}{
		"answers": map[string]int{"phishing-email": 1},
	}))
	var body struct {
		Score learning.Score `json:"score"`
	}
	decode(t, w, &body)
	if body.Score.Correct != 1 {
		t.Errorf("expected 1 correct, got %+v", body.Score)
	}
}

// --- leaderboard and dashboard ---

func TestHandleLeaderboard(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.board.HandleLeaderboard, request("GET", "/api/leaderboard", "u1", nil))
	var body struct {
		Entries      []leaderboard.Entry       `json:"entries"`
		Achievements []leaderboard.Achievement `json:"achievements"`
	}
	decode(t, w, &body)
	if len(body.Entries) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(body.Entries))
	}
	current := 0
	for i, e := range body.Entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d has rank %d", i, e.Rank)
		}
		if e.IsCurrentUser {
			current++
			if e.Name != "You" {
				t.Errorf("expected fallback name You, got %q", e.Name)
			}
			// seeded holdings are capital, not gain
			if e.Change.GreaterThan(decimal.NewFromInt(5)) || e.Rank == 1 {
				t.Errorf("fresh user shows %s%% change at rank %d", e.Change, e.Rank)
			}
		}
	}
	if current != 1 {
		t.Errorf("expected exactly one current-user entry, got %d", current)
	}
	if len(body.Achievements) != 4 {
		t.Errorf("expected 4 achievements, got %d", len(body.Achievements))
	}
}

func TestHandleDashboard(t *testing.T) {
	env := newTestEnv(t)
	dash := NewDashboardHandler(env.board)

	w := serve(dash.HandleDashboard, request("GET", "/api/dashboard", "u1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Rank     int `json:"rank"`
		Players  int `json:"players"`
		Learning struct {
			Total int `json:"totalModules"`
		} `json:"learning"`
	}
	decode(t, w, &body)
	if body.Players != 7 || body.Rank < 1 || body.Rank > 7 {
		t.Errorf("unexpected rank %d of %d", body.Rank, body.Players)
	}
	if body.Learning.Total != 6 {
		t.Errorf("expected 6 modules in summary, got %d", body.Learning.Total)
	}
}

// --- content ---

type stubGenerator struct {
	out content.Content
	err error
}

func (g stubGenerator) Generate(context.Context, string) (content.Content, error) {
	return g.out, g.err
}

func TestHandleGenerate(t *testing.T) {
	logger := common.NewSilentLogger()
	ok := NewContentHandler(content.NewService(stubGenerator{out: content.Content{Example: "SIP of ₹500", Scenario: "Riya in Pune"}}, time.Second, logger))
	failing := NewContentHandler(content.NewService(stubGenerator{err: errors.New("quota")}, time.Second, logger))

	w := serve(ok.HandleGenerate, request("POST", "/api/content/generate", "u1", map[string]string{"concept": "Compounding"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body content.Content
	decode(t, w, &body)
	if body.Example != "SIP of ₹500" {
		t.Errorf("unexpected content %+v", body)
	}

	if w := serve(ok.HandleGenerate, request("POST", "/api/content/generate", "u1", map[string]string{"concept": "ab"})); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for a short concept, got %d", w.Code)
	}
	w = serve(failing.HandleGenerate, request("POST", "/api/content/generate", "u1", map[string]string{"concept": "Inflation"}))
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 on generator failure, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != content.ErrGenerationFailed.Error() {
		t.Errorf("expected the generic failure message, got %q", msg)
	}

	unconfigured := NewContentHandler(nil)
	if w := serve(unconfigured.HandleGenerate, request("POST", "/api/content/generate", "u1", map[string]string{"concept": "Inflation"})); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a generator, got %d", w.Code)
	}
}

// --- auth ---

func TestAuthFlow_SignupLoginMe(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.auth.HandleSignup, request("POST", "/api/auth/signup", "",
		map[string]string{"email": "Asha@Example.com", "password": "secret123", "display_name": "Asha"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var session struct {
		User struct {
			UID   string `json:"uid"`
			Email string `json:"email"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decode(t, w, &session)
	if session.User.Email != "asha@example.com" || session.Token == "" {
		t.Errorf("unexpected session %+v", session)
	}
	if c := w.Result().Cookies(); len(c) != 1 || c[0].Name != auth.SessionCookie {
		t.Errorf("expected a session cookie, got %v", c)
	}

	w = serve(env.auth.HandleSignup, request("POST", "/api/auth/signup", "",
		map[string]string{"email": "asha@example.com", "password": "secret123"}))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for a taken email, got %d", w.Code)
	}

	w = serve(env.auth.HandleLogin, request("POST", "/api/auth/login", "",
		map[string]string{"email": "asha@example.com", "password": "wrong-pass"}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a bad password, got %d", w.Code)
	}

	w = serve(env.auth.HandleLogin, request("POST", "/api/auth/login", "",
		map[string]string{"email": "asha@example.com", "password": "secret123"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = serve(env.auth.HandleMe, request("GET", "/api/me", session.User.UID, nil))
	var me struct {
		UID     string `json:"uid"`
		Profile struct {
			DisplayName string `json:"display_name"`
		} `json:"profile"`
	}
	decode(t, w, &me)
	if me.UID != session.User.UID || me.Profile.DisplayName != "Asha" {
		t.Errorf("unexpected /me response %+v", me)
	}

	// the leaderboard picks up the profile name
	w = serve(env.board.HandleLeaderboard, request("GET", "/api/leaderboard", session.User.UID, nil))
	if !strings.Contains(w.Body.String(), `"name":"Asha"`) {
		t.Errorf("expected the leaderboard to use the display name: %s", w.Body.String())
	}
}

func TestAuthSignup_Validates(t *testing.T) {
	env := newTestEnv(t)
	cases := []map[string]string{
		{"email": "not-an-email", "password": "secret123"},
		{"email": "a@b.com", "password": "123"},
	}
	for _, body := range cases {
		w := serve(env.auth.HandleSignup, request("POST", "/api/auth/signup", "", body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", body, w.Code)
		}
	}
}

func TestAuthLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.auth.HandleLogout, request("POST", "/api/auth/logout", "", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expired session cookie, got %v", cookies)
	}
}

func TestAuthReset_UnknownEmailIsSilent(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.auth.HandleReset, request("POST", "/api/auth/reset", "", map[string]string{"email": "ghost@example.com"}))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for an unknown email, got %d", w.Code)
	}
	w = serve(env.auth.HandleReset, request("POST", "/api/auth/reset", "",
		map[string]string{"email": "ghost@example.com", "code": "000000", "password": "newpass1"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad code, got %d", w.Code)
	}
}
