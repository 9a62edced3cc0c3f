package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired is returned before any network I/O when an
	// operation needs an auth token and none is available.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrNetwork wraps transport-level failures (DNS, connection, timeout).
	ErrNetwork = errors.New("network failure")
)

// ServerError is a non-2xx response from the API. The body is retained so
// callers can surface server-provided detail.
type ServerError struct {
	StatusCode int
	Body       []byte
}

func (e *ServerError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is a ServerError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr) && serverErr.StatusCode == statusCode
}
