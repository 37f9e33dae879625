// Package apperr defines the error taxonomy shared by the service and HTTP
// layers: validation, authorization, not-found, everything else 500.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks missing/empty required fields and invalid enum values.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden marks a role not permitted to perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks an id that does not resolve to a record.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated marks a request without a valid session.
	ErrUnauthenticated = errors.New("not authenticated")
)

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
