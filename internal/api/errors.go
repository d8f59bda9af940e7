package api

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by every call made without an API token.
var ErrNotInitialized = errors.New("todoist client not initialized: no API token")

// APIError represents an error returned by the Todoist API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized returns true if the error is a 401 Unauthorized error.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsForbidden returns true if the error is a 403 Forbidden error.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == 403
}

// IsRateLimited returns true if the error is a 429 Too Many Requests error.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsAPIError unwraps err looking for an *APIError.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Describe turns an error into a short message suitable for a status line.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotInitialized) {
		return "No API token configured (run with --setup-config)"
	}
	if apiErr, ok := IsAPIError(err); ok {
		switch {
		case apiErr.IsUnauthorized(), apiErr.IsForbidden():
			return "Todoist rejected the API token"
		case apiErr.IsRateLimited():
			return "Rate limited by Todoist, try again shortly"
		case apiErr.IsNotFound():
			return "Item no longer exists on Todoist"
		case apiErr.IsServerError():
			return fmt.Sprintf("Todoist server error (%d)", apiErr.StatusCode)
		}
		return fmt.Sprintf("Todoist error (%d)", apiErr.StatusCode)
	}
	return "Network error, showing cached data"
}
