package openlibrary

import (
	"errors"
	"fmt"
)

// NetworkError represents a transport failure or a non-success HTTP status
// from the Open Library API. Status is zero when no response was received.
type NetworkError struct {
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("openlibrary request failed with status %d", e.Status)
	}
	return fmt.Sprintf("openlibrary request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is a NetworkError (even when wrapped).
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// DecodeError represents a success response whose body does not parse as
// the expected schema. It carries the parser's diagnostic.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("openlibrary response decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is a DecodeError (even when wrapped).
func IsDecodeError(err error) bool {
	var decErr *DecodeError
	return errors.As(err, &decErr)
}
