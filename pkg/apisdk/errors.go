package apisdk

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned by authenticated operations after a renewal
// has failed. The session stays expired until the next Login.
var ErrSessionExpired = errors.New("apisdk: session expired, log in again")

// APIError is a non-2xx response translated into an error. StatusCode carries
// the HTTP status; Message is the server's envelope message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apisdk: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("apisdk: %s (status %d)", e.Message, e.StatusCode)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}
