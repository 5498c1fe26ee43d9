// file: internal/metadata/errors.go
// version: 1.0.0
// guid: c593abe6-9e3c-42d2-afc4-cefc989975e8

package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the remote service has no record for the URL,
	// either via HTTP 404 or an HTML "404" page in the body.
	ErrNotFound = errors.New("resource not found")
	// ErrDecode means the payload is not a JSON object.
	ErrDecode = errors.New("payload is not valid JSON")
	// ErrTimeout means the request did not finish within its timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrFieldMissing is the cause of a FieldError for absent fields.
	ErrFieldMissing = errors.New("field missing")
)

// HTTPStatusError reports a non-2xx response from the remote service.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 status.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrNotFound && e != nil && e.StatusCode == 404
}

// ParseError wraps a fatal (whole-response) parse failure.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("parse response: %v", e.Err)
	}
	return fmt.Sprintf("parse response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError is a non-fatal failure extracting or converting one field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
