package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/stockx/internal/domain/entity"
)

// LedgerTx is the view of a single user's ledger inside one serialized
// mutation. All reads see the state as of the lock acquisition plus any
// staged writes; Append and AdjustCash become durable together when the
// enclosing WithUser call returns nil, and not at all otherwise.
type LedgerTx interface {
	// Cash returns the user's current cash balance.
	Cash(ctx context.Context) (decimal.Decimal, error)
	// SharesOf returns the user's net share count for a symbol.
	SharesOf(ctx context.Context, symbol string) (int64, error)
	// Append stages a new ledger entry. The entry ID is assigned on commit.
	Append(ctx context.Context, e *entity.LedgerEntry) error
	// AdjustCash stages a cash delta and returns the resulting balance.
	AdjustCash(ctx context.Context, delta decimal.Decimal) (decimal.Decimal, error)
}

// LedgerRepository is the durable append-only transaction log plus the
// cached per-user cash balance.
//
// WithUser serializes mutations per user: two concurrent calls for the
// same user run one after the other, calls for different users are
// independent. A non-nil error from fn rolls everything back.
type LedgerRepository interface {
	WithUser(ctx context.Context, userID string, fn func(tx LedgerTx) error) error

	// EntriesFor returns the user's entries ordered by time then id.
	// An empty symbol returns all entries.
	EntriesFor(ctx context.Context, userID, symbol string) ([]entity.LedgerEntry, error)
	// Positions returns the user's net share count per symbol, only for
	// symbols with a positive count, ordered by symbol ascending.
	Positions(ctx context.Context, userID string) ([]entity.Holding, error)
	// CashOf returns the cached cash balance.
	CashOf(ctx context.Context, userID string) (decimal.Decimal, error)
}
