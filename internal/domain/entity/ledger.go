package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the kind of event a ledger entry records.
type EntryType string

const (
	EntryBuy         EntryType = "buy"
	EntrySell        EntryType = "sell"
	EntryTransferIn  EntryType = "transfer_in"
	EntryTransferOut EntryType = "transfer_out"
)

// TransferDirection is the user-facing direction of a cash transfer.
type TransferDirection string

const (
	TransferIn  TransferDirection = "in"
	TransferOut TransferDirection = "out"
)

// EntryType maps a transfer direction to its ledger entry type.
func (d TransferDirection) EntryType() EntryType {
	if d == TransferOut {
		return EntryTransferOut
	}
	return EntryTransferIn
}

// LedgerEntry is one immutable record of a cash- or share-affecting event.
// The ledger is append-only: entries are never updated or deleted.
//
// Symbol, Shares and Price are zero for pure cash transfers. Shares is
// negative for sells. Total is always the absolute monetary amount of the
// entry; its sign relative to cash is derived from Type (see CashEffect).
type LedgerEntry struct {
	ID         int64
	UserID     string
	Type       EntryType
	Symbol     string
	Shares     int64
	Price      decimal.Decimal
	Total      decimal.Decimal
	Transacted time.Time
}

// IsTrade reports whether the entry moves shares.
func (e *LedgerEntry) IsTrade() bool {
	return e.Type == EntryBuy || e.Type == EntrySell
}

// CashEffect returns the signed impact of the entry on the user's cash
// balance. Buys and transfers out debit cash, sells and transfers in
// credit it.
func (e *LedgerEntry) CashEffect() decimal.Decimal {
	switch e.Type {
	case EntryBuy, EntryTransferOut:
		return e.Total.Neg()
	case EntrySell, EntryTransferIn:
		return e.Total
	}
	return decimal.Zero
}

// Holding is a user's net share count in one symbol, derived from the ledger.
type Holding struct {
	Symbol string
	Shares int64
}

// Position is a holding valued at the current market price.
type Position struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

// Quote is a point-in-time price lookup for a ticker symbol.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}
