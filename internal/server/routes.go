package server

import (
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	a := s.app

	// MCP endpoint (JSON-RPC over HTTP)
	if a.MCPHandler != nil {
		mux.Handle("/mcp", a.MCPHandler)
	}

	mux.HandleFunc("/api/health", a.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", a.VersionHandler.ServeHTTP)

	// Accounts
	mux.HandleFunc("/api/auth/signup", a.AuthHandler.HandleSignup)
	mux.HandleFunc("/api/auth/login", a.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", a.AuthHandler.HandleLogout)
	mux.HandleFunc("/api/auth/reset", a.AuthHandler.HandleReset)
	mux.HandleFunc("/api/auth/verify", a.AuthHandler.HandleVerify)
	mux.HandleFunc("/api/auth/verify/send", a.AuthHandler.HandleSendVerification)
	mux.HandleFunc("/api/me", a.AuthHandler.HandleMe)

	// Portfolio and market
	mux.HandleFunc("/api/portfolio", a.PortfolioHandler.HandlePortfolio)
	mux.HandleFunc("/api/portfolio/trade", a.PortfolioHandler.HandleTrade)
	mux.HandleFunc("/api/portfolio/assets", a.PortfolioHandler.HandleAddAsset)
	mux.HandleFunc("/api/portfolio/cash", a.PortfolioHandler.HandleAddCash)
	mux.HandleFunc("/api/portfolio/refresh", a.PortfolioHandler.HandleRefresh)
	mux.HandleFunc("/api/assets", a.PortfolioHandler.HandleAssets)
	mux.HandleFunc("/api/assets/{ticker}/quote", a.PortfolioHandler.HandleQuote)

	// Budget
	mux.HandleFunc("/api/budget", a.BudgetHandler.HandleBudget)
	mux.HandleFunc("/api/budget/transactions", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, a.BudgetHandler.HandleBudget, a.BudgetHandler.HandleAddTransaction)
	})
	mux.HandleFunc("/api/budget/goals", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, a.BudgetHandler.HandleBudget, a.BudgetHandler.HandleAddGoal)
	})
	mux.HandleFunc("/api/budget/goals/{id}/contribute", a.BudgetHandler.HandleContribute)
	mux.HandleFunc("/api/budget/allocate", a.BudgetHandler.HandleAllocate)

	// Learning
	mux.HandleFunc("/api/learn/modules", a.LearningHandler.HandleModules)
	mux.HandleFunc("/api/learn/modules/{id}", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, a.LearningHandler.HandleModule, nil, nil)
	})
	mux.HandleFunc("/api/learn/modules/{id}/answers", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{http.MethodPut: a.LearningHandler.HandleAnswer})
	})
	mux.HandleFunc("/api/learn/modules/{id}/submit", a.LearningHandler.HandleSubmit)
	mux.HandleFunc("/api/learn/modules/{id}/retake", a.LearningHandler.HandleRetake)

	// Fraud awareness
	mux.HandleFunc("/api/fraud/challenges", a.FraudHandler.HandleChallenges)
	mux.HandleFunc("/api/fraud/challenges/{id}/check", a.FraudHandler.HandleCheck)
	mux.HandleFunc("/api/fraud/score", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:    a.FraudHandler.HandleScore,
			http.MethodPost:   a.FraudHandler.HandleMark,
			http.MethodDelete: a.FraudHandler.HandleResetScore,
		})
	})

	mux.HandleFunc("/api/leaderboard", a.LeaderboardHandler.HandleLeaderboard)
	mux.HandleFunc("/api/dashboard", a.DashboardHandler.HandleDashboard)
	mux.HandleFunc("/api/content/generate", a.ContentHandler.HandleGenerate)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "The requested endpoint does not exist")
}
