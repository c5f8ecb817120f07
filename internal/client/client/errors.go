package client

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("resource already exists")
)

// APIError is a failure reported by the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// NewAPIError builds an APIError classified by status.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message, kind: mapStatus(status)}
}

// Unwrap exposes the sentinel matching Status, if any.
func (e *APIError) Unwrap() error { return e.kind }

// mapStatus classifies an HTTP status into one of the sentinel errors.
func mapStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict, status == http.StatusPreconditionFailed:
		return ErrConflict
	case status >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}
