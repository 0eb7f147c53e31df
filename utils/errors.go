package utils

import (
	"fmt"
	"net/http"
)

// AppError represents an application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequestError creates a 400 Bad Request error
func BadRequestError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// ConflictError creates a 409 Conflict error
func ConflictError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// ForbiddenError creates a 403 Forbidden error
func ForbiddenError(message string, err error) *AppError {
	return NewAppError(http.StatusForbidden, message, err)
}

// ValidationAppError creates a 422 Unprocessable Entity error
func ValidationAppError(message string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, err)
}

// InternalError creates a 500 Internal Server Error
func InternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// GetAppError returns the AppError if the error is one
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return nil
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == http.StatusNotFound
	}
	return false
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == http.StatusConflict
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
