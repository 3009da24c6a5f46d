package mcp

import (
	"context"
	"errors"

	"github.com/bobmcallan/paisa-buddy/internal/budget"
	"github.com/bobmcallan/paisa-buddy/internal/content"
	"github.com/bobmcallan/paisa-buddy/internal/fraud"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
	"github.com/bobmcallan/paisa-buddy/internal/market"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/payment"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Deps are the services the tools call into. Content and Quiz may be nil,
// in which case their tools are not registered.
type Deps struct {
	Ledgers  *ledgers.Registry
	Catalog  *market.Catalog
	Feed     market.Feed
	Content  *content.Service
	Quiz     *fraud.Quiz
	Currency string
}

type toolDef struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// RegisterTools adds every tool to s and returns the count.
func RegisterTools(s *server.MCPServer, d Deps) int {
	defs := []toolDef{
		{versionTool(), d.version},
		{
			mcp.NewTool("get_portfolio",
				mcp.WithDescription("Get the simulated portfolio: positions, virtual cash, totals and allocation by asset type."),
			),
			d.getPortfolio,
		},
		{
			mcp.NewTool("search_assets",
				mcp.WithDescription("Search the asset catalogue by name or ticker."),
				mcp.WithString("query", mcp.Description("Text to match against name or ticker; empty lists everything")),
				mcp.WithString("type", mcp.Description(`"Stock" or "Mutual Fund"`)),
			),
			d.searchAssets,
		},
		{
			mcp.NewTool("trade",
				mcp.WithDescription("Buy or sell whole units of a tracked asset at its current price using virtual cash."),
				mcp.WithString("asset_id", mcp.Required(), mcp.Description("Ticker of a tracked position, e.g. RELIANCE")),
				mcp.WithString("action", mcp.Required(), mcp.Description(`"buy" or "sell"`)),
				mcp.WithNumber("quantity", mcp.Required(), mcp.Description("Whole number of units, at least 1")),
			),
			d.trade,
		},
		{
			mcp.NewTool("add_cash",
				mcp.WithDescription("Top up virtual cash with a mock UPI payment."),
				mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount in rupees, greater than zero")),
				mcp.WithString("utr", mcp.Required(), mcp.Description("UPI transaction reference, usually 12 digits")),
			),
			d.addCash,
		},
		{
			mcp.NewTool("get_budget",
				mcp.WithDescription("Get budget transactions, savings goals and derived totals."),
			),
			d.getBudget,
		},
		{
			mcp.NewTool("add_transaction",
				mcp.WithDescription("Record an income or expense transaction dated today."),
				mcp.WithString("type", mcp.Required(), mcp.Description(`"Income" or "Expense"`)),
				mcp.WithString("category", mcp.Required(), mcp.Description("Category, e.g. Salary or Rent")),
				mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount greater than zero")),
			),
			d.addTransaction,
		},
		{
			mcp.NewTool("allocate_savings",
				mcp.WithDescription("Distribute the unallocated balance across savings goals in order."),
			),
			d.allocateSavings,
		},
		{
			mcp.NewTool("list_modules",
				mcp.WithDescription("List learning modules with progress and status."),
			),
			d.listModules,
		},
	}
	if d.Quiz != nil {
		defs = append(defs, toolDef{
			mcp.NewTool("list_fraud_challenges",
				mcp.WithDescription("List the fraud-awareness scenarios and their options."),
			),
			d.listChallenges,
		})
	}
	if d.Content != nil {
		defs = append(defs, toolDef{
			mcp.NewTool("generate_content",
				mcp.WithDescription("Generate an India-centric example and scenario for a financial concept."),
				mcp.WithString("concept", mcp.Required(), mcp.Description("Financial concept, e.g. compound interest")),
			),
			d.generateContent,
		})
	}

	for _, def := range defs {
		s.AddTool(def.tool, def.handler)
	}
	return len(defs)
}

func (d Deps) getPortfolio(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, res := workspace(ctx, d.Ledgers)
	if res != nil {
		return res, nil
	}
	snap := ws.Portfolio.Snapshot()
	return jsonResult(map[string]interface{}{
		"summary":    portfolio.Summarize(snap),
		"allocation": portfolio.Allocate(snap),
		"positions":  snap.Positions,
		"currency":   d.Currency,
	}), nil
}

func (d Deps) searchAssets(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assetType := models.AssetType(r.GetString("type", ""))
	if assetType != "" && !assetType.Valid() {
		return errorResult(portfolio.ErrInvalidType.Error()), nil
	}
	return jsonResult(d.Catalog.Search(r.GetString("query", ""), assetType)), nil
}

func (d Deps) trade(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, res := workspace(ctx, d.Ledgers)
	if res != nil {
		return res, nil
	}
	qty, err := intArg(r, "quantity")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	action, err := portfolio.ParseAction(r.GetString("action", ""))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	order, err := portfolio.NewTradeOrder(r.GetString("asset_id", ""), qty, action)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	result := ws.Portfolio.Trade(ctx, order)
	if !result.Accepted {
		return errorResult(result.Message), nil
	}
	return jsonResult(result), nil
}

func (d Deps) addCash(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, res := workspace(ctx, d.Ledgers)
	if res != nil {
		return res, nil
	}
	amount, err := decimalArg(r, "amount")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	req, err := payment.NewCashRequest(amount, payment.UPI, payment.Details{UTR: r.GetString("utr", "")})
	if err != nil {
		return errorResult(err.Error()), nil
	}
	deposit, err := req.Deposit()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	cash := ws.Portfolio.AddCash(ctx, deposit)
	return jsonResult(map[string]interface{}{"cash": cash, "message": req.Receipt(d.Currency)}), nil
}

func (d Deps) getBudget(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, res := workspace(ctx, d.Ledgers)
	if res != nil {
		return res, nil
	}
	snap := ws.Budget.Snapshot()
	return jsonResult(map[string]interface{}{
		"totals":       ws.Budget.Totals(),
		"transactions": snap.Transactions,
		"goals":        snap.Goals,
	}), nil
}

func (d Deps) addTransaction(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, res := workspace(ctx, d.Ledgers)
	if res != nil {
		return res, nil
	}
	amount, err := decimalArg(r, "amount")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	txType, err := budget.ParseTransactionType(r.GetString("type", ""))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	req, err := budget.NewTransactionRequest(txType, r.GetString("category", ""), amount)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	tx := ws.Budget.AddTransaction(ctx, req)
	return jsonResult(map[string]interface{}{"transaction": tx, "totals": ws.Budget.Totals()}), nil
}

func (d Deps) allocateSavings(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, res := workspace(ctx, d.Ledgers)
	if res != nil {
		return res, nil
	}
	return jsonResult(ws.Budget.AllocateSavings(ctx)), nil
}

func (d Deps) listModules(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, res := workspace(ctx, d.Ledgers)
	if res != nil {
		return res, nil
	}
	type moduleRow struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Progress int    `json:"progress"`
		Status   string `json:"status"`
	}
	var rows []moduleRow
	for _, m := range ws.Learning.Modules() {
		rows = append(rows, moduleRow{ID: m.ID, Title: m.Title, Progress: m.Progress, Status: m.Status()})
	}
	return jsonResult(map[string]interface{}{"modules": rows, "summary": ws.Learning.Summary()}), nil
}

func (d Deps) listChallenges(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(d.Quiz.Public()), nil
}

func (d Deps) generateContent(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := content.NewRequest(r.GetString("concept", ""))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	out, err := d.Content.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, content.ErrGenerationFailed) {
			return errorResult(err.Error()), nil
		}
		return nil, err
	}
	return jsonResult(out), nil
}
