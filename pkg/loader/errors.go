package loader

import (
	"errors"
	"fmt"
)

// ErrAssetLoad matches every failure of Load through errors.Is.
var ErrAssetLoad = errors.New("asset load failed")

// Error describes a failed load of one URL.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

// Unwrap exposes both ErrAssetLoad and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{ErrAssetLoad, e.Err}
}

// StatusError reports an HTTP response with a failing status code.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected status: " + e.Status
}
