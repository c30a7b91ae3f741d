package generator

import (
	"errors"
	"fmt"
)

// ProviderError reports a failed completion call: transport failure, timeout,
// non-200 status or a body without choices. Body holds the raw response when one
// was received.
type ProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := "failed to fetch response from completion provider"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ValidationError means generated copy is still over its limit after one
// shortening attempt.
type ValidationError struct {
	Field  string
	Limit  int
	Length int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("failed to generate a valid %s (%d characters, limit %d)", e.Field, e.Length, e.Limit)
}

// ErrInvalidScore is returned when the model does not answer with a 0-100 integer.
var ErrInvalidScore = errors.New("the model did not return a valid score")

// IsProviderError reports whether err wraps a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
