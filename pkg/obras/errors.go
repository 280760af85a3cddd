package obras

import (
	"errors"
	"fmt"
)

// Error kinds
var (
	// ErrValidation indicates a missing or malformed input field
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates the operation would violate a uniqueness rule
	ErrConflict = errors.New("conflict")

	// ErrNotFound indicates a referenced record does not exist
	ErrNotFound = errors.New("not found")
)

// Refined errors. Each wraps one of the kinds above.
var (
	ErrMissingFields           = fmt.Errorf("%w: required fields are empty", ErrValidation)
	ErrPasswordMismatch        = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrPasswordTooLong         = fmt.Errorf("%w: password exceeds 72 bytes", ErrValidation)
	ErrInvalidStatusTransition = fmt.Errorf("%w: invalid status transition", ErrValidation)
	ErrEmailTaken              = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrWorkNotFound            = fmt.Errorf("%w: work", ErrNotFound)
	ErrImageNotFound           = fmt.Errorf("%w: image", ErrNotFound)
	ErrPlanNotFound            = fmt.Errorf("%w: premium plan", ErrNotFound)
	ErrImageStoreMissing       = errors.New("no image store configured")
)

// WorkError represents an error related to work operations
type WorkError struct {
	WorkID int64
	Op     string
	Err    error
}

func (e *WorkError) Error() string {
	return fmt.Sprintf("work operation %s failed for work %d: %v", e.Op, e.WorkID, e.Err)
}

func (e *WorkError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to image blob operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
