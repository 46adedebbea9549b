package client

import (
	"errors"
	"fmt"
	"net/http"

	"restaurant-finder/internal/domain"
)

// ErrNetwork matches every failure where no response came back.
var ErrNetwork = errors.New("request failed")

// APIError is the backend's structured error body, raised for any non-2xx
// response.
type APIError struct {
	Message   string
	Code      string
	Status    int
	Timestamp domain.Timestamp
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	default:
		return http.StatusText(e.Status)
	}
}

func newAPIError(status int, body domain.ErrorResponse) *APIError {
	apiErr := &APIError{
		Message:   body.Message,
		Code:      body.Error,
		Status:    body.Status,
		Timestamp: body.Timestamp,
	}
	if apiErr.Status == 0 {
		apiErr.Status = status
	}
	return apiErr
}

type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// IsUnauthorized reports a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}
