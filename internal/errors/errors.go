// Package errors provides the application error type for the finance service.
// Service-layer failures are returned as *AppError so handlers can render a
// consistent apology page (HTML) or error object (JSON) without leaking
// internal details to clients.
package errors

import (
	"net/http"
	"strconv"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an *AppError with the same code, so that
// wrapped copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// FromStatus builds an AppError for a bare HTTP status, using the standard
// status text as the message.
func FromStatus(status int) *AppError {
	return &AppError{
		Code:       "HTTP_" + strconv.Itoa(status),
		Message:    http.StatusText(status),
		StatusCode: status,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Login required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid username and/or password", StatusCode: http.StatusForbidden}
	ErrPasswordMismatch   = &AppError{Code: "PASSWORD_MISMATCH", Message: "passwords don't match", StatusCode: http.StatusBadRequest}
	ErrSessionExpired     = &AppError{Code: "SESSION_EXPIRED", Message: "session expired", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrMissingField   = &AppError{Code: "MISSING_FIELD", Message: "missing required field", StatusCode: http.StatusBadRequest}
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal Server Error", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "username is already taken", StatusCode: http.StatusConflict}
)

// Quote errors.
var (
	ErrSymbolNotFound   = &AppError{Code: "SYMBOL_NOT_FOUND", Message: "invalid symbol", StatusCode: http.StatusBadRequest}
	ErrQuoteUnavailable = &AppError{Code: "QUOTE_UNAVAILABLE", Message: "quote service unavailable", StatusCode: http.StatusBadGateway}
)

// Trading and cash errors.
var (
	ErrInvalidShares      = &AppError{Code: "INVALID_SHARES", Message: "shares must be a positive whole number", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount      = &AppError{Code: "INVALID_AMOUNT", Message: "amount must be a positive dollar value", StatusCode: http.StatusBadRequest}
	ErrInsufficientFunds  = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "not enough cash", StatusCode: http.StatusBadRequest}
	ErrInsufficientShares = &AppError{Code: "INSUFFICIENT_SHARES", Message: "not enough shares", StatusCode: http.StatusBadRequest}
)
