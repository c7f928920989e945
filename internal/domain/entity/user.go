package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
//
// Cash is a cached projection of the ledger: it must always equal the
// starting balance plus the sum of signed ledger amounts, and is only
// mutated together with a ledger append.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string // optional, only used for trade receipts
	Cash         decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
