package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/internal/domain/repository"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// YahooProvider resolves quotes against the Yahoo Finance v8 chart API.
// No API key required. Each Lookup makes a fresh request: buy/sell/quote
// always trade at the current market price.
type YahooProvider struct {
	cli     *http.Client
	baseURL string
}

func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		cli:     &http.Client{Timeout: 8 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// NewYahooProviderWithBase is used by tests to point at a fake server.
func NewYahooProviderWithBase(baseURL string) *YahooProvider {
	p := NewYahooProvider()
	p.baseURL = baseURL
	return p
}

func (p *YahooProvider) Lookup(ctx context.Context, symbol string) (*entity.Quote, error) {
	if symbol == "" {
		return nil, repository.ErrUnknownSymbol
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", p.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "stockx/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, repository.ErrUnknownSymbol
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					Symbol             string  `json:"symbol"`
					LongName           string  `json:"longName"`
					ShortName          string  `json:"shortName"`
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw.Chart.Result) == 0 {
		return nil, repository.ErrUnknownSymbol
	}

	meta := raw.Chart.Result[0].Meta
	price := decimal.NewFromFloat(meta.RegularMarketPrice).Round(2)
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, repository.ErrUnknownSymbol
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = symbol
	}
	return &entity.Quote{Symbol: symbol, Name: name, Price: price}, nil
}

var _ repository.QuoteProvider = (*YahooProvider)(nil)
