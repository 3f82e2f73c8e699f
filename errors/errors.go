package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrTypeValidation ErrorType = "validation"
	ErrTypeExternal   ErrorType = "external_service"
	ErrTypeDatabase   ErrorType = "database"
	ErrTypeInternal   ErrorType = "internal"
	ErrTypeNetwork    ErrorType = "network"
	ErrTypeAuth       ErrorType = "authentication"
	ErrTypeNotFound   ErrorType = "not_found"
)

// AppError represents a standardized application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	Cause      error     `json:"-"`
	StatusCode int       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error constructors for common error types

// NewValidationError creates a validation error
func NewValidationError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrTypeValidation,
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusBadRequest,
	}
}

// NewExternalServiceError creates an external service error
func NewExternalServiceError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrTypeExternal,
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusBadGateway,
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrTypeDatabase,
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewNetworkError creates a network error
func NewNetworkError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrTypeNetwork,
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusBadGateway,
	}
}

// NewAuthError creates an authentication error
func NewAuthError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrTypeAuth,
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewInternalError creates an internal error
func NewInternalError(code, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrTypeInternal,
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusInternalServerError,
	}
}

// Predefined error codes
const (
	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeMissingField = "MISSING_FIELD"

	// External service errors
	ErrCodeSupabaseAPIFailed = "SUPABASE_API_FAILED"

	// Database errors
	ErrCodeDatabaseConnection = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseQuery      = "DATABASE_QUERY_FAILED"

	// Network errors
	ErrCodeNetworkConnection = "NETWORK_CONNECTION_FAILED"

	// Authentication errors
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccessDenied       = "ACCESS_DENIED"

	// Internal errors
	ErrCodeConfigurationError = "CONFIGURATION_ERROR"
)

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

// WrapError wraps an existing error as an AppError
func WrapError(err error, errType ErrorType, code, message string) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
