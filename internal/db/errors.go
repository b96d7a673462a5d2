// Package db provides error types for storage operations.
package db

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for storage operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrTableExists indicates a chunked table (or other derived table)
	// with the same name already exists.
	ErrTableExists = errors.New("table already exists")

	// ErrJobNotFound indicates the requested job is not registered.
	ErrJobNotFound = errors.New("job not found")

	// ErrSchema indicates a table or column creation/insertion failure
	// propagated from the storage engine.
	ErrSchema = errors.New("schema error")

	// ErrInvalidIdentifier indicates a schema, table, or column name that
	// cannot be safely quoted into SQL.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// wrapSchemaError inspects a driver error and wraps it with the
// appropriate sentinel if it matches a known failure pattern. Returns
// the error wrapped as ErrSchema otherwise.
func wrapSchemaError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("%w: %v", ErrTableExists, err)
	}
	return fmt.Errorf("%w: %v", ErrSchema, err)
}
