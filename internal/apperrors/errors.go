package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel kinds, matched with errors.Is against any *AppError.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredential      = errors.New("invalid credential")
	ErrExpiredCredential      = errors.New("expired credential")
	ErrForbidden              = errors.New("forbidden")
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("resource not found")
	ErrConflict               = errors.New("conflict")
	ErrInternal               = errors.New("internal error")
)

// FieldError describes one violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is an error with a client-facing message and HTTP status.
type AppError struct {
	Kind    error
	Message string
	Status  int
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
		}
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(parts, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Is(target error) bool {
	return e.Kind == target
}

func AuthenticationRequired() *AppError {
	return &AppError{Kind: ErrAuthenticationRequired, Message: "Authentication required", Status: http.StatusUnauthorized}
}

func InvalidCredential(message string) *AppError {
	if message == "" {
		message = "Invalid token"
	}
	return &AppError{Kind: ErrInvalidCredential, Message: message, Status: http.StatusUnauthorized}
}

func ExpiredCredential() *AppError {
	return &AppError{Kind: ErrExpiredCredential, Message: "Token has expired", Status: http.StatusUnauthorized}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: ErrForbidden, Message: message, Status: http.StatusForbidden}
}

// Validation reports every violated field at once.
func Validation(fields []FieldError) *AppError {
	return &AppError{Kind: ErrValidation, Message: "Validation failed", Status: http.StatusBadRequest, Fields: fields}
}

func InvalidInput(field, message string) *AppError {
	return Validation([]FieldError{{Field: field, Message: message}})
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: resource + " not found", Status: http.StatusNotFound}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: ErrConflict, Message: message, Status: http.StatusConflict}
}

// Internal hides err from clients; it is kept for logging.
func Internal(err error) *AppError {
	return &AppError{Kind: ErrInternal, Message: "Internal server error", Status: http.StatusInternalServerError, Err: err}
}

// From returns err as an *AppError, wrapping anything unrecognized as Internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
