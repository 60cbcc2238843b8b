package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// APIError represents a standardized API error response.
// The core services return these so the transport layer can map each kind
// to a status code without inspecting store internals.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Step    string    `json:"step,omitempty"`
	Status  int       `json:"-"`
	cause   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	if e.Step != "" {
		return fmt.Sprintf("%s: %s (step: %s)", e.Code, e.Message, e.Step)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying store error, if any
func (e *APIError) Unwrap() error {
	return e.cause
}

// CodeOf returns the ErrorCode of err if it is an APIError, or
// ErrInternalError otherwise.
func CodeOf(err error) ErrorCode {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ErrInternalError
}

// IsCode reports whether err is an APIError with the given code
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return &APIError{
		Code:    ErrUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *APIError {
	return &APIError{
		Code:    ErrForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// Conflict creates a CONFLICT error
func Conflict(resource string) *APIError {
	return &APIError{
		Code:    ErrConflict,
		Message: fmt.Sprintf("%s already exists", resource),
		Status:  http.StatusConflict,
	}
}

// ValidationError creates a VALIDATION_ERROR
func ValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
		Status:  http.StatusUnprocessableEntity,
	}
}

// SelfReference creates a SELF_REFERENCE error for operations where the
// actor and the target must be distinct users.
func SelfReference(message string) *APIError {
	return &APIError{
		Code:    ErrSelfReference,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return &APIError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return &APIError{
		Code:    ErrInternalError,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// StoreUnavailable creates a STORE_UNAVAILABLE error. Step names which part
// of a multi-write operation failed so the caller can decide between a full
// retry and leaving the record for reconciliation.
func StoreUnavailable(step string, cause error) *APIError {
	return &APIError{
		Code:    ErrStoreUnavail,
		Message: "store unavailable",
		Step:    step,
		Status:  http.StatusServiceUnavailable,
		cause:   cause,
	}
}
