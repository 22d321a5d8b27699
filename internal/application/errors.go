package application

import (
	"errors"
	"fmt"

	"kbstudio/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidID        = errors.New("invalid ID")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrEmptyClipboard   = errors.New("clipboard is empty")
	ErrCannotPaste      = errors.New("cannot paste")
	ErrIDSpaceExhausted = domain.ErrIDSpaceExhausted
	ErrNodeIDInUse      = domain.ErrNodeIDInUse
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PasteError represents a paste or duplicate that could not be applied
type PasteError struct {
	WorkflowID string
	Reason     string
	Err        error
}

func (e *PasteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot paste into %s: %s: %v", e.WorkflowID, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot paste into %s: %s", e.WorkflowID, e.Reason)
}

func (e *PasteError) Is(target error) bool {
	return target == ErrCannotPaste
}

func (e *PasteError) Unwrap() error {
	return e.Err
}
