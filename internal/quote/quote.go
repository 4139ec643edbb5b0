// Package quote looks up current share prices from an external source.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the source does not know the symbol.
var ErrNotFound = errors.New("symbol not found")

// Quote is a point-in-time price for a symbol.
type Quote struct {
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// Provider resolves a symbol to its current quote.
type Provider interface {
	// Name returns the provider's display name.
	Name() string

	// Lookup returns the quote for symbol, ErrNotFound when the symbol is
	// unknown, or another error when the source could not be reached.
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// NormalizeSymbol trims and upper-cases a user-entered ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// LookupError wraps a failed lookup with the symbol that caused it.
type LookupError struct {
	Provider string
	Symbol   string
	Err      error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: lookup %s: %v", e.Provider, e.Symbol, e.Err)
}

// Unwrap exposes the cause so errors.Is(err, ErrNotFound) works.
func (e *LookupError) Unwrap() error { return e.Err }
