package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finance/internal/errors"
	"finance/internal/logger"
	"finance/internal/models"
	"finance/internal/money"
)

// portfolioService values holdings at live prices.
type portfolioService struct {
	db     *gorm.DB
	quotes QuoteServicer
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB, quotes QuoteServicer) PortfolioServicer {
	return &portfolioService{db: db, quotes: quotes}
}

// GetPortfolio returns the user's open positions valued at the current
// price, the cash balance and the grand total. A holding whose symbol can
// no longer be quoted is valued at its last execution price and marked
// stale.
func (s *portfolioService) GetPortfolio(ctx context.Context, userID string) (*Portfolio, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	positions, err := openPositions(db, userID)
	if err != nil {
		return nil, err
	}

	p := &Portfolio{
		Holdings:      make([]Holding, 0, len(positions)),
		Cash:          user.Cash,
		HoldingsTotal: decimal.Zero,
	}
	for _, pos := range positions {
		h, err := s.value(ctx, db, userID, pos)
		if err != nil {
			return nil, err
		}
		p.Holdings = append(p.Holdings, h)
		p.HoldingsTotal = p.HoldingsTotal.Add(h.Total)
	}
	p.GrandTotal = p.HoldingsTotal.Add(p.Cash)
	return p, nil
}

func (s *portfolioService) value(ctx context.Context, db *gorm.DB, userID string, pos position) (Holding, error) {
	h := Holding{Symbol: pos.Symbol, Name: pos.Symbol, Shares: pos.Shares}

	q, err := s.quotes.Lookup(ctx, pos.Symbol)
	switch {
	case err == nil:
		h.Name = q.Name
		h.Price = q.Price
	case errors.Is(err, apperrors.ErrSymbolNotFound), errors.Is(err, apperrors.ErrQuoteUnavailable):
		var last models.Trade
		if err := db.Where("user_id = ? AND symbol = ?", userID, pos.Symbol).
			Order("traded_at DESC, id DESC").
			First(&last).Error; err != nil {
			return h, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		logger.Get().Infow("valuing holding at last execution price", "symbol", pos.Symbol, "reason", err)
		h.Price = last.Price
		h.Stale = true
	default:
		return h, err
	}

	h.Total = money.Cost(h.Price, h.Shares)
	return h, nil
}
