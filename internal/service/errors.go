package service

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for the API boundary.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindUnauthorized       Kind = "unauthorized"
	KindNotFound           Kind = "not_found"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindConfiguration      Kind = "configuration_error"
	KindPersistence        Kind = "persistence_error"
	KindUpstream           Kind = "upstream_error"
	KindInternal           Kind = "internal_error"
)

// Error carries a Kind and a client-safe message. Err holds the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrPasswordMismatch    = &Error{Kind: KindValidation, Message: "Passwords do not match"}
	ErrUserExists          = &Error{Kind: KindValidation, Message: "User already exists"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Message: "No user found with the provided email"}
	ErrInvalidCredentials  = &Error{Kind: KindInvalidCredentials, Message: "Incorrect password"}
	ErrPasswordlessAccount = &Error{Kind: KindInvalidCredentials, Message: "This account signs in with an external provider"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrVideoNotFound       = &Error{Kind: KindNotFound, Message: "Video not found"}
	ErrUploadNotConfigured = &Error{Kind: KindNotFound, Message: "Direct uploads are not configured"}
)

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Describe returns the kind and the message that may be shown to a client.
// Errors outside the taxonomy get a generic message so internals never leak.
func Describe(err error) (Kind, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, e.Message
	}
	return KindInternal, "Internal server error"
}

func validationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func missingFieldsError(fields []string) error {
	return &Error{
		Kind:    KindValidation,
		Message: "Missing required fields: " + strings.Join(fields, ", "),
	}
}

// persistenceError surfaces the store's message to the caller.
func persistenceError(err error) error {
	return &Error{Kind: KindPersistence, Message: err.Error(), Err: err}
}

func configurationError(message string, err error) error {
	return &Error{Kind: KindConfiguration, Message: message, Err: err}
}

func upstreamError(message string, err error) error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}
