package application

import (
	"errors"
	"fmt"
)

// Rejection reasons for the trading and account operations. Every rejected
// operation leaves the ledger and cash balances untouched.
var (
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrInvalidQuantity    = errors.New("invalid number of shares")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("not enough cash")
	ErrInsufficientShares = errors.New("not enough shares")
	ErrUsernameTaken      = errors.New("username is not available")
	ErrPasswordMismatch   = errors.New("passwords don't match")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrUserNotFound       = errors.New("user not found")

	// Request-fatal collaborator failures. Not user-input errors, but
	// surfaced with the same uniform presentation and no partial commit.
	ErrQuoteUnavailable = errors.New("quote service unavailable")
	ErrStoreUnavailable = errors.New("ledger store unavailable")
)

var domainErrors = []error{
	ErrInvalidSymbol,
	ErrInvalidQuantity,
	ErrInvalidAmount,
	ErrInsufficientFunds,
	ErrInsufficientShares,
	ErrUsernameTaken,
	ErrPasswordMismatch,
	ErrInvalidCredentials,
	ErrUserNotFound,
	ErrQuoteUnavailable,
	ErrStoreUnavailable,
}

// IsDomainError reports whether err is one of the declared rejection reasons.
func IsDomainError(err error) bool {
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}

// storeErr passes domain rejections through unchanged and wraps everything
// else as a store failure.
func storeErr(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
