// Package errors defines typed errors shared across the source adapters
// and the HTTP retry client.
package errors

import "fmt"

// HTTPError represents a non-2xx response from an external API.
// The response body is captured for diagnostics.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// NewHTTPError creates a new HTTPError with the given status and body.
func NewHTTPError(status int, body string) *HTTPError {
	return &HTTPError{Status: status, Body: body}
}
