package common

import (
	"errors"
	"fmt"
)

// ErrInputInvalid is returned when the caller supplies empty or blank location text.
var ErrInputInvalid = errors.New("location text is required")

// ProviderError reports a failed call to an upstream provider, either a transport
// failure or a non-success response.
type ProviderError struct {
	Provider   string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a ProviderError unless it already is one.
func NewProviderError(provider string, status int, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, StatusCode: status, Err: err}
}

// IsProviderError reports whether err carries a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
