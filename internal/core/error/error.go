package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the unified error shape for calls against the shop service.
//
// A response that arrived with a non-2xx status carries that status and
// whatever the server put into its error body. A call that produced no
// response at all (network failure, unreadable body) carries Status zero
// and wraps the underlying cause.
type Error struct {
	Err     error
	Status  int
	Message string
	Fields  map[string][]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("shop: transport failure: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("shop: status %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("shop: status %d", e.Status)
	}
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Transport reports whether no response was received from the server.
func (e *Error) Transport() bool {
	return e.Status == 0
}

// Validation reports whether the server rejected the request with a
// field-level validation failure.
func (e *Error) Validation() bool {
	return e.Status == http.StatusUnprocessableEntity
}

// NewTransport wraps a failure that produced no usable server response.
func NewTransport(err error) *Error {
	return &Error{Err: err}
}

// NewService builds an Error from a non-2xx response.
func NewService(status int, message string, fields map[string][]string) *Error {
	return &Error{Status: status, Message: message, Fields: fields}
}

// From extracts an *Error from an error chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ServerMessage returns the server-provided message from err, or fallback
// when err carries none. Controllers use it so the user is never left
// without feedback.
func ServerMessage(err error, fallback string) string {
	if e, ok := From(err); ok && e.Message != "" {
		return e.Message
	}
	return fallback
}
