package model

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend rejects the session (HTTP 401).
// By the time a caller sees it the session has already been cleared.
var ErrUnauthorized = errors.New("Unauthorized")

// ErrSignInRequired is returned by save when no session is active.
var ErrSignInRequired = &ValidationError{Message: "Please sign in to save your CV"}

// ValidationError is a client-side precondition failure. No request was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NetworkError wraps a transport failure: the backend could not be reached.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "Network error (server unreachable)" }

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError is a non-success status whose body could not be interpreted.
type RequestError struct {
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Request failed (%d)", e.StatusCode)
}

// DomainError carries the backend's own error message verbatim.
type DomainError struct {
	StatusCode int
	Message    string
}

func (e *DomainError) Error() string { return e.Message }

// StatusCode extracts the HTTP status from a request or domain error, or 0.
func StatusCode(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		return de.StatusCode
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// Message returns the user-facing text for err, unwrapping the taxonomy
// types so wrapping context does not leak into the UI.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Error()
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Error()
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Error()
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrUnauthorized.Error()
	}
	return err.Error()
}
