package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingestion errors
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrMalformedInput    = errors.New("malformed input")
	ErrSizeLimitExceeded = errors.New("size limit exceeded")

	// Analysis errors
	ErrInsufficientData    = errors.New("insufficient data for analysis")
	ErrInvalidChartBinding = errors.New("invalid chart binding")

	// Collaborator errors
	ErrStorageUnavailable = errors.New("metadata store unavailable")
	ErrNotFound           = errors.New("resource not found")
)

// NewUnsupportedFormatError reports a format the parser does not handle
func NewUnsupportedFormatError(format string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// NewMalformedInputError reports content that cannot be decoded into a rectangular table
func NewMalformedInputError(reason string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedInput, reason, err)
	}
	return fmt.Errorf("%w: %s", ErrMalformedInput, reason)
}

// NewSizeLimitError reports a payload that exceeds the configured maximum
func NewSizeLimitError(size, limit int64) error {
	return fmt.Errorf("%w: payload is %d bytes, limit is %d bytes", ErrSizeLimitExceeded, size, limit)
}

// NewChartBindingError reports a column bound to a role with the wrong type.
// The message names the offending role and the expected type so the caller
// can surface an actionable message.
func NewChartBindingError(role, column, expected string) error {
	return fmt.Errorf("%w: role %q requires a %s column, got %q", ErrInvalidChartBinding, role, expected, column)
}

// NewChartBindingMissingError reports a role bound to a column the table
// does not have
func NewChartBindingMissingError(role, column string) error {
	return fmt.Errorf("%w: role %q bound to unknown column %q", ErrInvalidChartBinding, role, column)
}

// NewChartParamError reports an out-of-contract shaping parameter
func NewChartParamError(param, detail string) error {
	return fmt.Errorf("%w: parameter %q %s", ErrInvalidChartBinding, param, detail)
}

// NewStorageError wraps a metadata store failure
func NewStorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}

// NewNotFoundError reports a missing resource by kind and id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsIngestionError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrSizeLimitExceeded)
}

func IsBindingError(err error) bool {
	return errors.Is(err, ErrInvalidChartBinding)
}
