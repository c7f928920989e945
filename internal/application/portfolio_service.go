package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mfalcone/stockx/internal/domain/entity"
	repo "github.com/mfalcone/stockx/internal/domain/repository"
	"github.com/mfalcone/stockx/pkg/money"
)

// PortfolioService derives current holdings and their valuation from the
// ledger plus live quotes. It is a pure read path: nothing derived is
// cached, since prices are always live.
type PortfolioService struct {
	Ledger       repo.LedgerRepository
	Quotes       repo.QuoteProvider
	StartingCash decimal.Decimal
	Logger       *logrus.Logger
}

func NewPortfolioService(ledger repo.LedgerRepository, quotes repo.QuoteProvider, startingCash decimal.Decimal, logger *logrus.Logger) *PortfolioService {
	return &PortfolioService{Ledger: ledger, Quotes: quotes, StartingCash: startingCash, Logger: logger}
}

// Overview is a user's cash, valued positions and net worth.
type Overview struct {
	Cash      decimal.Decimal
	Positions []entity.Position
	NetWorth  decimal.Decimal
}

// Positions aggregates net share counts per symbol from the ledger
// (symbols with no remaining shares are hidden), resolves one fresh quote
// per symbol and values each position at the current price. Ordered by
// symbol ascending.
func (s *PortfolioService) Positions(ctx context.Context, userID string) ([]entity.Position, error) {
	holdings, err := s.Ledger.Positions(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	positions := make([]entity.Position, 0, len(holdings))
	for _, h := range holdings {
		q, err := lookupQuote(ctx, s.Quotes, h.Symbol)
		if err != nil {
			return nil, err
		}
		positions = append(positions, entity.Position{
			Symbol: h.Symbol,
			Name:   q.Name,
			Shares: h.Shares,
			Price:  q.Price,
			Value:  money.Round(q.Price.Mul(decimal.NewFromInt(h.Shares))),
		})
	}
	return positions, nil
}

// Overview returns positions plus cash and net worth (cash + market value
// of all held positions).
func (s *PortfolioService) Overview(ctx context.Context, userID string) (*Overview, error) {
	positions, err := s.Positions(ctx, userID)
	if err != nil {
		return nil, err
	}
	cash, err := s.Ledger.CashOf(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	net := cash
	for _, p := range positions {
		net = net.Add(p.Value)
	}
	return &Overview{Cash: cash, Positions: positions, NetWorth: net}, nil
}

// Reconcile re-derives the user's cash from the ledger and compares it with
// the cached balance. The two must agree at all times; a mismatch means the
// cache and the log have drifted apart and is reported as corruption.
func (s *PortfolioService) Reconcile(ctx context.Context, userID string) error {
	entries, err := s.Ledger.EntriesFor(ctx, userID, "")
	if err != nil {
		return storeErr(err)
	}
	derived := s.StartingCash
	shares := make(map[string]int64)
	for i := range entries {
		e := &entries[i]
		derived = derived.Add(e.CashEffect())
		if e.IsTrade() {
			shares[e.Symbol] += e.Shares
		}
	}
	for sym, n := range shares {
		if n < 0 {
			return fmt.Errorf("ledger corruption for user %s: negative position %d in %s", userID, n, sym)
		}
	}
	cached, err := s.Ledger.CashOf(ctx, userID)
	if err != nil {
		return storeErr(err)
	}
	if !derived.Equal(cached) {
		return fmt.Errorf("cash drift for user %s: ledger derives %s, cached balance is %s", userID, derived, cached)
	}
	return nil
}
