// Package common provides shared utilities used across the application.
package common

import (
	"errors"
	"fmt"
)

// ErrAborted indicates the user stopped an interactive session early.
var ErrAborted = errors.New("aborted by user")

// UserError represents an error that should be shown to the user with a
// friendly message while preserving the underlying cause for logs.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}
