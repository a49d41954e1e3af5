package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidContext is returned before any network I/O when an authenticated
	// route is called with an anonymous context.
	ErrInvalidContext = errors.New("valence: route requires an authenticated context")

	// ErrMalformedInput marks caller-supplied values that cannot be sent, such as
	// an upload without a stream or a locker path without a leading slash.
	ErrMalformedInput = errors.New("valence: malformed input")

	// ErrMalformedResponse is returned when a response claims to be JSON but is not.
	ErrMalformedResponse = errors.New("valence: malformed response")

	// ErrUnexpectedContent is returned when a typed decode meets a non-JSON body.
	ErrUnexpectedContent = errors.New("valence: unexpected response content")
)

// HTTPStatusError reports a non-2xx response. It is never retried.
type HTTPStatusError struct {
	Method     string
	Route      string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("valence: %s %s: %s", e.Method, e.Route, e.Status)
}
