package handlers

import (
	"errors"
	"net/http"

	"github.com/mfalcone/stockx/internal/application"
)

// errStatus maps an application error to the HTTP status it should
// surface as. Unknown errors come back as 500.
func errStatus(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrQuoteUnavailable),
		errors.Is(err, application.ErrStoreUnavailable):
		return http.StatusBadGateway
	case application.IsDomainError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
