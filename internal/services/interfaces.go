package services

import (
	"context"

	"github.com/shopspring/decimal"

	"finance/internal/models"
	"finance/internal/pagination"
	"finance/internal/quote"
)

// UserServicer defines the contract for registration and login.
type UserServicer interface {
	Register(ctx context.Context, username, password, confirmation string) (*models.User, error)
	AttemptLogin(ctx context.Context, username, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// QuoteServicer resolves user-entered symbols to current quotes.
type QuoteServicer interface {
	Lookup(ctx context.Context, symbol string) (*quote.Quote, error)
}

// TradeServicer defines the contract for buying, selling and trade history.
type TradeServicer interface {
	Buy(ctx context.Context, userID, symbol string, shares int64) (*models.Trade, error)
	Sell(ctx context.Context, userID, symbol string, shares int64) (*models.Trade, error)
	HeldSymbols(ctx context.Context, userID string) ([]string, error)
	History(ctx context.Context, userID string) ([]models.Trade, error)
	HistoryPage(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error)
}

// Holding is one symbol the user owns, valued at the current price.
type Holding struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Total  decimal.Decimal `json:"total"`
	// Stale is set when no live price was available and Price is the
	// last execution price instead.
	Stale bool `json:"stale"`
}

// Portfolio is a user's holdings plus cash.
type Portfolio struct {
	Holdings      []Holding       `json:"holdings"`
	Cash          decimal.Decimal `json:"cash"`
	HoldingsTotal decimal.Decimal `json:"holdings_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// PortfolioServicer values a user's holdings.
type PortfolioServicer interface {
	GetPortfolio(ctx context.Context, userID string) (*Portfolio, error)
}

// CashServicer adds and removes virtual cash.
type CashServicer interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*models.User, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*models.User, error)
}

// AuditServicer defines the contract for recording audit events.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
