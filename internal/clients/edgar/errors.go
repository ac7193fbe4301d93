package edgar

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a well-formed response simply lacked the sought
// document. Callers treat it as "no data for this filing", not as a fault.
var ErrNotFound = errors.New("edgar: not found")

// TransportError is a failed HTTP exchange: network error, timeout, or a
// non-2xx status. It is never retried at the client layer.
type TransportError struct {
	URL        string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("edgar: GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("edgar: GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is a malformed submissions document or information table.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("edgar: parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
