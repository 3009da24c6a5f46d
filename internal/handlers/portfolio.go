package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
	"github.com/bobmcallan/paisa-buddy/internal/market"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/payment"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/shopspring/decimal"
)

// PortfolioHandler serves the simulated trading endpoints.
type PortfolioHandler struct {
	logger   *common.Logger
	ledgers  *ledgers.Registry
	catalog  *market.Catalog
	feed     market.Feed
	currency string
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(logger *common.Logger, reg *ledgers.Registry, catalog *market.Catalog, feed market.Feed, currency string) *PortfolioHandler {
	return &PortfolioHandler{logger: logger, ledgers: reg, catalog: catalog, feed: feed, currency: currency}
}

type portfolioResponse struct {
	Summary    portfolio.Summary           `json:"summary"`
	Allocation []portfolio.AllocationSlice `json:"allocation"`
	Positions  []models.Position           `json:"positions"`
	Currency   string                      `json:"currency"`
}

// HandlePortfolio handles GET /api/portfolio.
func (h *PortfolioHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, h.view(ws))
}

func (h *PortfolioHandler) view(ws *ledgers.Workspace) portfolioResponse {
	snap := ws.Portfolio.Snapshot()
	return portfolioResponse{
		Summary:    portfolio.Summarize(snap),
		Allocation: portfolio.Allocate(snap),
		Positions:  snap.Positions,
		Currency:   h.currency,
	}
}

// HandleTrade handles POST /api/portfolio/trade.
// A rejected trade answers 409 with the unchanged position and cash.
func (h *PortfolioHandler) HandleTrade(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	var req struct {
		AssetID  string `json:"assetId"`
		Quantity int64  `json:"quantity"`
		Action   string `json:"action"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	action, err := portfolio.ParseAction(req.Action)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := portfolio.NewTradeOrder(req.AssetID, req.Quantity, action)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := ws.Portfolio.Trade(r.Context(), order)
	if !result.Accepted {
		WriteJSON(w, http.StatusConflict, result)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// HandleAddAsset handles POST /api/portfolio/assets. The ticker must be a
// catalog listing; name, type, sector and price come from the catalog.
func (h *PortfolioHandler) HandleAddAsset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	var req struct {
		Ticker string `json:"ticker"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	listing, found := h.catalog.Lookup(req.Ticker)
	if !found {
		WriteError(w, http.StatusNotFound, "Asset not found")
		return
	}
	pos, added, err := ws.Portfolio.AddAsset(r.Context(), portfolio.NewAsset{
		Ticker: listing.Ticker,
		Name:   listing.Name,
		Type:   listing.Type,
		Sector: listing.Sector,
		Price:  listing.Price,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	WriteJSON(w, status, map[string]interface{}{"position": pos, "added": added})
}

// HandleAddCash handles POST /api/portfolio/cash. The mock card or UPI
// payment is validated before the deposit is credited.
func (h *PortfolioHandler) HandleAddCash(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	var req struct {
		Amount  decimal.Decimal `json:"amount"`
		Method  string          `json:"method"`
		Details payment.Details `json:"details"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	cashReq, err := payment.NewCashRequest(req.Amount, method, req.Details)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	deposit, err := cashReq.Deposit()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cash := ws.Portfolio.AddCash(r.Context(), deposit)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cash":    cash,
		"message": cashReq.Receipt(h.currency),
	})
}

// HandleRefresh handles POST /api/portfolio/refresh.
func (h *PortfolioHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	updated := ws.Portfolio.RefreshPrices(r.Context(), h.feed)
	resp := h.view(ws)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"updated": updated, "portfolio": resp})
}

// HandleAssets handles GET /api/assets?q=&type=.
func (h *PortfolioHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	assetType := models.AssetType(r.URL.Query().Get("type"))
	if assetType != "" && !assetType.Valid() {
		WriteError(w, http.StatusBadRequest, portfolio.ErrInvalidType.Error())
		return
	}
	listings := h.catalog.Search(r.URL.Query().Get("q"), assetType)
	if listings == nil {
		listings = []market.Listing{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"assets": listings})
}

// HandleQuote handles GET /api/assets/{ticker}/quote.
func (h *PortfolioHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ticker := r.PathValue("ticker")
	price, err := h.feed.Quote(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, market.ErrNoQuote) {
			WriteError(w, http.StatusNotFound, "No quote available")
			return
		}
		h.logger.Warn().Str("ticker", ticker).Err(err).Msg("quote lookup failed")
		WriteError(w, http.StatusBadGateway, "Quote source unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"ticker": ticker, "price": price})
}
