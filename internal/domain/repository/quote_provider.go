package repository

import (
	"context"
	"errors"

	"github.com/mfalcone/stockx/internal/domain/entity"
)

// ErrUnknownSymbol is returned by Lookup when the quote source does not
// know the ticker symbol.
var ErrUnknownSymbol = errors.New("unknown symbol")

// QuoteProvider resolves a ticker symbol to its current market price and
// display name. Implementations must not cache: every call re-resolves.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (*entity.Quote, error)
}
