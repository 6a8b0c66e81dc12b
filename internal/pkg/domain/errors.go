package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a DomainError.
type ErrorCode string

const (
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
)

// DomainError is the error type returned by domain and application code.
// Two DomainErrors match under errors.Is when their codes are equal, so the
// sentinels below can be used to classify any error produced by the constructors.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches on the error code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is classification.
var (
	ErrNotFound          = &DomainError{Code: CodeNotFound}
	ErrConflict          = &DomainError{Code: CodeConflict}
	ErrValidation        = &DomainError{Code: CodeValidation}
	ErrInvalidTransition = &DomainError{Code: CodeInvalidTransition}
	ErrForbidden         = &DomainError{Code: CodeForbidden}
	ErrUnauthorized      = &DomainError{Code: CodeUnauthorized}
)

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewConflictError reports a write that collides with existing state.
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// WrapConflictError reports a conflict detected by the storage layer.
func WrapConflictError(message string, err error) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message, Err: err}
}

// NewValidationError reports malformed input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewInvalidStateError reports a state machine transition that is not allowed.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("invalid state transition from %s to %s", from, to),
	}
}

// NewForbiddenError reports an authenticated caller acting outside its scope.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: message}
}

// NewUnauthorizedError reports a missing or invalid caller identity.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: message}
}

// HTTPStatus maps an error to the HTTP status code the API layer should use.
func HTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidTransition:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
