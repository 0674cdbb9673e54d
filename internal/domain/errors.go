package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when a start is attempted while a timer is
	// already running, or while another mutation is still in flight.
	ErrConflict = errors.New("timer is already running")

	// ErrInvalidState is returned when a stop is attempted while no
	// timer is running.
	ErrInvalidState = errors.New("timer is not running")
)

// RemoteError wraps any failure of a call to the time-entry server:
// transport errors, non-2xx responses, or malformed payloads.
type RemoteError struct {
	Op         string // "start timer", "stop timer", ...
	StatusCode int    // 0 for transport-level failures
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
