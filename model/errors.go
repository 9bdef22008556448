package model

import (
	"errors"
	"fmt"
)

// The three error kinds every component operation can fail with. An
// operation either returns a result or exactly one of these, never a partial
// result.

// AuthErrorCause categorizes AuthError so the UI can show a distinct
// remediation per cause.
type AuthErrorCause string

const (
	AuthCauseInvalidCredentials AuthErrorCause = "invalid_credentials"
	AuthCauseUnconfirmedEmail   AuthErrorCause = "unconfirmed_email"
	AuthCauseRateLimited        AuthErrorCause = "rate_limited"
	AuthCauseSignupDisabled     AuthErrorCause = "signup_disabled"
	AuthCauseUnauthenticated    AuthErrorCause = "unauthenticated"
)

// ValidationError reports an input that failed a caller-side constraint
// before any external call was made. Always recoverable locally.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthError reports that the identity provider rejected a credential
// operation, or that an operation requiring authentication was called
// without a viewer.
type AuthError struct {
	Cause   AuthErrorCause
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed (%s): %s", e.Cause, e.Message)
}

func NewAuthError(cause AuthErrorCause, message string) *AuthError {
	return &AuthError{Cause: cause, Message: message}
}

// StoreError reports that the relational store failed or rejected a
// query/mutation. Not recoverable by the immediate caller beyond showing an
// error and offering a retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
