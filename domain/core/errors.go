package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrUploadNotFound   = fmt.Errorf("%w: upload", ErrNotFound)
	ErrChartNotFound    = fmt.Errorf("%w: chart", ErrNotFound)
	ErrInsightNotFound  = fmt.Errorf("%w: insight", ErrNotFound)
	ErrSheetNotFound    = fmt.Errorf("%w: sheet", ErrNotFound)
	ErrUnreadableFile   = errors.New("unreadable spreadsheet file")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrOwnership        = errors.New("not authorized to access this resource")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrInvalidInput     = errors.New("invalid input")
)

// NewNotFoundError reports a missing record of the given resource kind.
func NewNotFoundError(resource string, id ID) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewInsufficientDataError keeps the reason visible to callers.
func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

func NewUnreadableFileError(cause error) error {
	if cause == nil {
		return ErrUnreadableFile
	}
	return fmt.Errorf("%w: %v", ErrUnreadableFile, cause)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsOwnershipError(err error) bool {
	return errors.Is(err, ErrOwnership)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsUnreadableFileError(err error) bool {
	return errors.Is(err, ErrUnreadableFile)
}
