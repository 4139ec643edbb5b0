package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

const httpProviderName = "quote-api"

// Paths are the JSONPath selectors used to read a quote response.
type Paths struct {
	Name   string
	Price  string
	Symbol string
}

// DefaultPaths match the IEX Cloud /stock/{symbol}/quote response.
var DefaultPaths = Paths{
	Name:   "$.companyName",
	Price:  "$.latestPrice",
	Symbol: "$.symbol",
}

// HTTPProvider fetches quotes from a REST endpoint of the form
// {baseURL}/{symbol}/quote?token={apiKey}.
type HTTPProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	paths      Paths
}

// NewHTTPProvider creates a provider for the given endpoint. Empty paths
// fall back to DefaultPaths.
func NewHTTPProvider(httpClient *http.Client, baseURL, apiKey string, paths Paths) *HTTPProvider {
	if paths.Name == "" {
		paths.Name = DefaultPaths.Name
	}
	if paths.Price == "" {
		paths.Price = DefaultPaths.Price
	}
	if paths.Symbol == "" {
		paths.Symbol = DefaultPaths.Symbol
	}
	return &HTTPProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		paths:      paths,
	}
}

// Name returns the provider's display name.
func (p *HTTPProvider) Name() string { return httpProviderName }

// Lookup fetches the current quote for symbol.
func (p *HTTPProvider) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, p.fail(symbol, ErrNotFound)
	}

	u := fmt.Sprintf("%s/%s/quote?token=%s", p.baseURL, url.PathEscape(symbol), url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, p.fail(symbol, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, p.fail(symbol, fmt.Errorf("http request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusBadRequest:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, p.fail(symbol, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, p.fail(symbol, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, p.fail(symbol, fmt.Errorf("decoding response: %w", err))
	}

	q, err := p.extract(body)
	if err != nil {
		return nil, p.fail(symbol, err)
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	if q.Name == "" {
		q.Name = q.Symbol
	}
	return q, nil
}

// extract reads name, symbol and price out of a decoded response.
func (p *HTTPProvider) extract(body any) (*Quote, error) {
	if body == nil {
		return nil, ErrNotFound
	}

	rawPrice, err := selectOne(p.paths.Price, body)
	if err != nil || rawPrice == nil {
		return nil, ErrNotFound
	}
	price, err := toDecimal(rawPrice)
	if err != nil {
		return nil, fmt.Errorf("price at %s: %w", p.paths.Price, err)
	}
	if !price.IsPositive() {
		return nil, ErrNotFound
	}

	q := &Quote{Price: price}
	if v, err := selectOne(p.paths.Name, body); err == nil {
		q.Name, _ = v.(string)
	}
	if v, err := selectOne(p.paths.Symbol, body); err == nil {
		if s, ok := v.(string); ok {
			q.Symbol = NormalizeSymbol(s)
		}
	}
	return q, nil
}

// selectOne evaluates a JSONPath and unwraps single-element results, since
// filter and slice expressions return lists.
func selectOne(path string, body any) (any, error) {
	v, err := jsonpath.Get(path, body)
	if err != nil {
		return nil, err
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, errors.New("no match")
		}
		v = list[0]
	}
	return v, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	case json.Number:
		return decimal.NewFromString(x.String())
	default:
		return decimal.Zero, fmt.Errorf("not a number: %v", v)
	}
}

func (p *HTTPProvider) fail(symbol string, err error) error {
	return &LookupError{Provider: p.Name(), Symbol: symbol, Err: err}
}
