package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfalcone/stockx/internal/application"
)

func TestErrStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{application.ErrInvalidSymbol, http.StatusBadRequest},
		{application.ErrInvalidQuantity, http.StatusBadRequest},
		{application.ErrInvalidAmount, http.StatusBadRequest},
		{application.ErrInsufficientFunds, http.StatusBadRequest},
		{application.ErrInsufficientShares, http.StatusBadRequest},
		{application.ErrPasswordMismatch, http.StatusBadRequest},
		{application.ErrUsernameTaken, http.StatusConflict},
		{application.ErrInvalidCredentials, http.StatusUnauthorized},
		{application.ErrUserNotFound, http.StatusNotFound},
		{application.ErrQuoteUnavailable, http.StatusBadGateway},
		{application.ErrStoreUnavailable, http.StatusBadGateway},
		{errors.New("surprise"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, errStatus(c.err), "error %v", c.err)
	}

	// wrapped errors map the same way
	wrapped := fmt.Errorf("context: %w", application.ErrInsufficientFunds)
	assert.Equal(t, http.StatusBadRequest, errStatus(wrapped))
}
