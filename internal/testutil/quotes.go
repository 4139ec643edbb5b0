package testutil

import (
	"context"
	"sync"

	"finance/internal/quote"

	"github.com/shopspring/decimal"
)

// QuoteStub is a mutable in-memory quote.Provider. Prices can be changed
// between calls, and Fail makes every lookup return an outage error.
type QuoteStub struct {
	mu     sync.Mutex
	quotes map[string]quote.Quote
	err    error
	calls  int
}

// NewQuoteStub creates a stub that knows the given symbol/price pairs,
// e.g. NewQuoteStub("AAPL", "100", "MSFT", "250.50").
func NewQuoteStub(pairs ...string) *QuoteStub {
	s := &QuoteStub{quotes: make(map[string]quote.Quote)}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

// Set adds or reprices a symbol.
func (s *QuoteStub) Set(symbol, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	symbol = quote.NormalizeSymbol(symbol)
	s.quotes[symbol] = quote.Quote{
		Name:   symbol + " Inc.",
		Symbol: symbol,
		Price:  decimal.RequireFromString(price),
	}
}

// Remove makes a symbol unknown.
func (s *QuoteStub) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, quote.NormalizeSymbol(symbol))
}

// Fail makes every subsequent lookup return err. Pass nil to recover.
func (s *QuoteStub) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many lookups have been made.
func (s *QuoteStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Name implements quote.Provider.
func (s *QuoteStub) Name() string { return "stub" }

// Lookup implements quote.Provider.
func (s *QuoteStub) Lookup(ctx context.Context, symbol string) (*quote.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = quote.NormalizeSymbol(symbol)
	if s.err != nil {
		return nil, &quote.LookupError{Provider: "stub", Symbol: symbol, Err: s.err}
	}
	q, ok := s.quotes[symbol]
	if !ok {
		return nil, &quote.LookupError{Provider: "stub", Symbol: symbol, Err: quote.ErrNotFound}
	}
	return &q, nil
}
