// Package errs defines the error kinds the library services return.
//
// Services return one of these (possibly wrapped); the HTTP layer maps them
// to status codes with errors.As. Anything else reaching the transport is
// treated as an unclassified store failure.
package errs

import "fmt"

// ValidationError reports a missing field, unknown enum value, or malformed
// input. Message is safe to show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation returns a ValidationError with a formatted message.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// AuthError reports a missing credential (Forbidden=false) or a caller whose
// role does not permit the operation (Forbidden=true).
type AuthError struct {
	Forbidden bool
	Message   string
}

func (e *AuthError) Error() string { return e.Message }

// Unauthenticated returns an AuthError for a caller with no identity.
func Unauthenticated(msg string) error {
	return &AuthError{Message: msg}
}

// Forbidden returns an AuthError for a caller lacking permission.
func Forbidden(msg string) error {
	return &AuthError{Forbidden: true, Message: msg}
}

// NotFoundError reports that the targeted record does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// NotFound returns a NotFoundError for entity/id.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StoreError wraps an underlying persistence failure. Its message is for
// logs only; callers see a generic message.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError for operation op. A nil err returns nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
