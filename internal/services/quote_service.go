package services

import (
	"context"
	"errors"

	apperrors "finance/internal/errors"
	"finance/internal/logger"
	"finance/internal/quote"
	"finance/internal/validator"
)

// pricePlaces matches the scale of the price and cash columns.
const pricePlaces = 4

// quoteService maps provider results onto application errors.
type quoteService struct {
	provider quote.Provider
}

// NewQuoteService creates a new QuoteServicer backed by provider.
func NewQuoteService(provider quote.Provider) QuoteServicer {
	return &quoteService{provider: provider}
}

// Lookup normalizes symbol and fetches its quote. Unknown or malformed
// symbols yield ErrSymbolNotFound; an unreachable source ErrQuoteUnavailable.
func (s *quoteService) Lookup(ctx context.Context, symbol string) (*quote.Quote, error) {
	symbol = quote.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "must provide symbol")
	}
	if !validator.IsTicker(symbol) {
		return nil, apperrors.ErrSymbolNotFound
	}

	q, err := s.provider.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return nil, apperrors.ErrSymbolNotFound
		}
		if ctx.Err() != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		logger.Get().Warnw("quote lookup failed", "provider", s.provider.Name(), "symbol", symbol, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}

	q.Price = q.Price.Round(pricePlaces)
	return q, nil
}
