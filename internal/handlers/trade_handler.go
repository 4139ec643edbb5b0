package handlers

import (
	"github.com/gin-gonic/gin"

	"finance/internal/services"
	"finance/internal/validator"
)

// TradeHandler serves the portfolio, quote, buy, sell and history pages.
type TradeHandler struct {
	tradeService     services.TradeServicer
	quoteService     services.QuoteServicer
	portfolioService services.PortfolioServicer
	auditService     services.AuditServicer
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(
	tradeService services.TradeServicer,
	quoteService services.QuoteServicer,
	portfolioService services.PortfolioServicer,
	auditService services.AuditServicer,
) *TradeHandler {
	return &TradeHandler{
		tradeService:     tradeService,
		quoteService:     quoteService,
		portfolioService: portfolioService,
		auditService:     auditService,
	}
}

// QuoteForm is the quote lookup form.
type QuoteForm struct {
	Symbol string `form:"symbol" binding:"required"`
}

// OrderForm is the buy and sell form. Shares stays a string so malformed
// counts map to INVALID_SHARES rather than a generic binding error.
type OrderForm struct {
	Symbol string `form:"symbol" binding:"required,ticker"`
	Shares string `form:"shares" binding:"required,whole_shares"`
}

// Index renders the portfolio.
func (h *TradeHandler) Index(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolio, err := h.portfolioService.GetPortfolio(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	renderPage(c, "index.html", gin.H{"Portfolio": portfolio})
}

// ShowQuote renders the quote form.
func (h *TradeHandler) ShowQuote(c *gin.Context) {
	renderPage(c, "quote.html", nil)
}

// Quote looks up a symbol and renders its current price.
func (h *TradeHandler) Quote(c *gin.Context) {
	var form QuoteForm
	if err := bindForm(c, &form); err != nil {
		respondWithError(c, err)
		return
	}

	q, err := h.quoteService.Lookup(c.Request.Context(), form.Symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	renderPage(c, "quoted.html", gin.H{"Quote": q})
}

// ShowBuy renders the buy form.
func (h *TradeHandler) ShowBuy(c *gin.Context) {
	renderPage(c, "buy.html", nil)
}

// Buy purchases shares at the current price.
func (h *TradeHandler) Buy(c *gin.Context) {
	userID, form, shares, ok := h.bindOrder(c)
	if !ok {
		return
	}

	trade, err := h.tradeService.Buy(c.Request.Context(), userID, form.Symbol, shares)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditBuy, "trade", trade.ID, c.ClientIP(),
		map[string]any{"symbol": trade.Symbol, "shares": trade.Shares, "price": trade.Price.String(), "amount": trade.Amount().String()})
	redirectHome(c)
}

// ShowSell renders the sell form with the symbols the user holds.
func (h *TradeHandler) ShowSell(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	symbols, err := h.tradeService.HeldSymbols(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	renderPage(c, "sell.html", gin.H{"Symbols": symbols})
}

// Sell sells held shares at the current price.
func (h *TradeHandler) Sell(c *gin.Context) {
	userID, form, shares, ok := h.bindOrder(c)
	if !ok {
		return
	}

	trade, err := h.tradeService.Sell(c.Request.Context(), userID, form.Symbol, shares)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditSell, "trade", trade.ID, c.ClientIP(),
		map[string]any{"symbol": trade.Symbol, "shares": trade.Shares, "price": trade.Price.String(), "amount": trade.Amount().String()})
	redirectHome(c)
}

// History renders every trade of the user.
func (h *TradeHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trades, err := h.tradeService.History(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	renderPage(c, "history.html", gin.H{"Trades": trades})
}

// bindOrder reads the user and the order form. On failure the error page
// has been written and ok is false.
func (h *TradeHandler) bindOrder(c *gin.Context) (userID string, form OrderForm, shares int64, ok bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", form, 0, false
	}
	if err := bindForm(c, &form); err != nil {
		respondWithError(c, err)
		return "", form, 0, false
	}
	shares, _ = validator.ParseShares(form.Shares)
	return userID, form, shares, true
}
