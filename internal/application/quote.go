package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mfalcone/stockx/internal/domain/entity"
	repo "github.com/mfalcone/stockx/internal/domain/repository"
)

// normalizeSymbol upper-cases and trims a ticker symbol. Symbols are
// normalized before storage and comparison.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// lookupQuote resolves a fresh quote, mapping provider failures onto the
// domain rejection reasons.
func lookupQuote(ctx context.Context, quotes repo.QuoteProvider, symbol string) (*entity.Quote, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	q, err := quotes.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, repo.ErrUnknownSymbol) {
			return nil, ErrInvalidSymbol
		}
		return nil, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	return q, nil
}
