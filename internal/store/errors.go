package store

import (
	"errors"
	"fmt"
)

// Common store errors that can be returned by any store implementation.
var (
	// ErrNotFound indicates that the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates that the entity already exists and cannot be created again.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity indicates that the entity failed validation or a
	// database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed indicates that an update operation failed.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed indicates that a delete operation failed.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTransactionFailed indicates that a transaction could not be completed.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific not-found errors
	ErrDeckNotFound     = fmt.Errorf("%w: deck", ErrNotFound)
	ErrCardNotFound     = fmt.Errorf("%w: card", ErrNotFound)
	ErrProgressNotFound = fmt.Errorf("%w: progress", ErrNotFound)

	// ErrProgressExists indicates a (card, deck) pair already has progress.
	ErrProgressExists = fmt.Errorf("%w: progress", ErrDuplicate)
)

// IsNotFoundError checks if the given error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the given error is a duplicate entity error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError provides context about a failed store operation.
type StoreError struct {
	Entity    string // The entity type (e.g., "card", "progress")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
