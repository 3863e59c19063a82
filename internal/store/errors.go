package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors for the storage taxonomy - use with errors.Is()
var (
	// ErrNotFound indicates a referenced id does not exist
	ErrNotFound = errors.New("not found")
	// ErrConstraint indicates a uniqueness violation on insert
	ErrConstraint = errors.New("already exists")
	// ErrValidation indicates caller-supplied invalid input
	ErrValidation = errors.New("validation failed")
	// ErrStorage indicates an underlying storage engine failure
	ErrStorage = errors.New("storage failure")
)

// isConstraintError checks if error is a sqlite constraint violation
func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// classify maps a raw sqlite error onto the storage taxonomy, keeping
// the driver message for context.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if isConstraintError(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
}
