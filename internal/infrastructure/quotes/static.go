package quotes

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/internal/domain/repository"
)

// StaticProvider serves quotes from a fixed table. Used for local
// development without network access and for deterministic tests.
type StaticProvider struct {
	mu     sync.RWMutex
	quotes map[string]entity.Quote
}

func NewStaticProvider(quotes ...entity.Quote) *StaticProvider {
	p := &StaticProvider{quotes: make(map[string]entity.Quote)}
	for _, q := range quotes {
		p.quotes[q.Symbol] = q
	}
	return p
}

// Set adds or replaces a quote.
func (p *StaticProvider) Set(symbol, name string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quotes[symbol] = entity.Quote{Symbol: symbol, Name: name, Price: price}
}

func (p *StaticProvider) Lookup(ctx context.Context, symbol string) (*entity.Quote, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, repository.ErrUnknownSymbol
	}
	cp := q
	return &cp, nil
}

var _ repository.QuoteProvider = (*StaticProvider)(nil)
