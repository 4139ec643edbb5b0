package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finance/internal/errors"
	"finance/internal/logger"
	"finance/internal/pagination"
	"finance/internal/services"
)

// healthTimeout bounds the database ping of the health check.
const healthTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APIHandler serves the JSON API.
type APIHandler struct {
	quoteService     services.QuoteServicer
	portfolioService services.PortfolioServicer
	tradeService     services.TradeServicer
	db               Pinger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(
	quoteService services.QuoteServicer,
	portfolioService services.PortfolioServicer,
	tradeService services.TradeServicer,
	db Pinger,
) *APIHandler {
	return &APIHandler{
		quoteService:     quoteService,
		portfolioService: portfolioService,
		tradeService:     tradeService,
		db:               db,
	}
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}

// QuoteResponse is a current price.
type QuoteResponse struct {
	Symbol string `json:"symbol" example:"AAPL"`
	Name   string `json:"name" example:"Apple Inc."`
	Price  string `json:"price" example:"189.25"`
}

// Health reports service and database health
// @Summary     Health check
// @Description Reports whether the service and its database are reachable
// @Tags        system
// @Produce     json
// @Success     200 {object} HealthResponse
// @Failure     503 {object} HealthResponse
// @Router      /health [get]
func (h *APIHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.Get().Errorw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}

// Quote returns the current price of a symbol
// @Summary     Look up a quote
// @Description Returns the company name and current share price for a ticker symbol
// @Tags        quotes
// @Produce     json
// @Param       symbol path string true "Ticker symbol" example(AAPL)
// @Success     200 {object} QuoteResponse
// @Failure     400 {object} ErrorResponse "Unknown symbol"
// @Failure     401 {object} ErrorResponse "Not logged in"
// @Failure     502 {object} ErrorResponse "Quote source unavailable"
// @Security    SessionCookie
// @Router      /v1/quote/{symbol} [get]
func (h *APIHandler) Quote(c *gin.Context) {
	q, err := h.quoteService.Lookup(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		Symbol: q.Symbol,
		Name:   q.Name,
		Price:  q.Price.StringFixed(2),
	})
}

// Portfolio returns the user's holdings and cash
// @Summary     Get portfolio
// @Description Returns open positions valued at current prices, cash and grand total
// @Tags        portfolio
// @Produce     json
// @Success     200 {object} services.Portfolio
// @Failure     401 {object} ErrorResponse "Not logged in"
// @Failure     500 {object} ErrorResponse "Server error"
// @Security    SessionCookie
// @Router      /v1/portfolio [get]
func (h *APIHandler) Portfolio(c *gin.Context) {
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

	c.JSON(http.StatusOK, portfolio)
}

// History returns one page of the user's trades
// @Summary     List trades
// @Description Returns the user's trades in execution order, paginated
// @Tags        history
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 25, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Trade]
// @Failure     400 {object} ErrorResponse "Invalid pagination"
// @Failure     401 {object} ErrorResponse "Not logged in"
// @Security    SessionCookie
// @Router      /v1/history [get]
func (h *APIHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid pagination parameters"))
		return
	}

	result, err := h.tradeService.HistoryPage(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
