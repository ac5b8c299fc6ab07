package catalog

import (
	"errors"
	"fmt"
)

// GenericStoreMessage is shown when a store failure carries no message.
const GenericStoreMessage = "Something went wrong. Please try again."

var (
	ErrBusy         = errors.New("another request for this form is still in progress")
	ErrNotConfirmed = errors.New("delete was not confirmed")
	ErrNotEditing   = errors.New("form is not open for editing")
	ErrUnknownField = errors.New("unknown field")
)

// ValidationError is detected locally and never reaches the store.
type ValidationError struct {
	Field   string
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func missing(field, message string) *ValidationError {
	return &ValidationError{Field: field, Title: "Missing Fields", Message: message}
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Title: "Invalid value", Message: message}
}

// StoreError wraps any failure returned by a store call.
type StoreError struct {
	Entity string
	Op     string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Entity, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Message is the store's own text when it has one.
func (e *StoreError) Message() string {
	if e.Err == nil || e.Err.Error() == "" {
		return GenericStoreMessage
	}
	return e.Err.Error()
}

// ConfirmPrompt is the question a caller must put to the user before a delete.
func ConfirmPrompt(entity string) string {
	return fmt.Sprintf("Are you sure you want to delete this %s? This cannot be undone.", lower(entity))
}
