package quote

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const staticProviderName = "static"

// fixtureFile is the YAML layout read by LoadFixtures.
type fixtureFile struct {
	Quotes []struct {
		Symbol string `yaml:"symbol"`
		Name   string `yaml:"name"`
		Price  string `yaml:"price"`
	} `yaml:"quotes"`
}

// StaticProvider serves quotes from a fixed table. It backs offline
// development and demos.
type StaticProvider struct {
	quotes map[string]Quote
}

// NewStaticProvider creates a provider serving the given quotes.
func NewStaticProvider(quotes ...Quote) *StaticProvider {
	p := &StaticProvider{quotes: make(map[string]Quote, len(quotes))}
	for _, q := range quotes {
		q.Symbol = NormalizeSymbol(q.Symbol)
		if q.Name == "" {
			q.Name = q.Symbol
		}
		p.quotes[q.Symbol] = q
	}
	return p
}

// LoadFixtures reads a YAML file of quotes:
//
//	quotes:
//	  - symbol: AAPL
//	    name: Apple Inc.
//	    price: "189.25"
func LoadFixtures(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quote fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures builds a StaticProvider from YAML fixture data.
func ParseFixtures(data []byte) (*StaticProvider, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse quote fixtures: %w", err)
	}

	quotes := make([]Quote, 0, len(f.Quotes))
	for i, fq := range f.Quotes {
		if NormalizeSymbol(fq.Symbol) == "" {
			return nil, fmt.Errorf("quote fixture %d: missing symbol", i)
		}
		price, err := decimal.NewFromString(fq.Price)
		if err != nil {
			return nil, fmt.Errorf("quote fixture %s: invalid price %q: %w", fq.Symbol, fq.Price, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("quote fixture %s: price must be positive", fq.Symbol)
		}
		quotes = append(quotes, Quote{Symbol: fq.Symbol, Name: fq.Name, Price: price})
	}
	return NewStaticProvider(quotes...), nil
}

// Name returns the provider's display name.
func (p *StaticProvider) Name() string { return staticProviderName }

// Lookup returns the fixed quote for symbol.
func (p *StaticProvider) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, &LookupError{Provider: p.Name(), Symbol: symbol, Err: ErrNotFound}
	}
	return &q, nil
}

// Symbols returns the number of symbols the provider knows.
func (p *StaticProvider) Symbols() int { return len(p.quotes) }
