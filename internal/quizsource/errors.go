package quizsource

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates the requested quiz does not exist.
	ErrNotFound = errors.New("quiz not found")
	// ErrUnauthorized indicates the caller's credentials were rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrResponseTooLarge indicates an upstream body exceeded the read limit.
	ErrResponseTooLarge = errors.New("upstream response too large")
)

// StatusError reports a non-2xx reply from the quiz backend. It unwraps to
// ErrNotFound or ErrUnauthorized where the status maps onto one of them.
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: upstream returned %d %s", e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return nil
	}
}
