package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilContext is returned when a nil context is passed to a storage method.
	ErrNilContext = errors.New("context cannot be nil")
	// ErrEmptyField is returned when a required string argument is blank.
	ErrEmptyField = errors.New("required field is empty")
	// ErrMismatchedRows is returned when outcome and activity slices differ in length.
	ErrMismatchedRows = errors.New("outcome count does not match row count")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyField, name)
	}
	return nil
}
