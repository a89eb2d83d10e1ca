package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a valid request that matched no row. It is a distinct
// outcome from a transport failure so callers can show "not found" and
// "try again" as different messages instead of collapsing both into "empty".
var ErrNotFound = errors.New("store: no matching row")

// TransportError reports a failed conversation with the remote store:
// network/DNS errors, non-2xx responses, an open circuit breaker, or an
// undecodable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
