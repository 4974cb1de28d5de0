package types

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConnectivity   ErrorType = "connectivity"
	ErrorTypePersistence    ErrorType = "persistence"
	ErrorTypeAlarm          ErrorType = "alarm"
	ErrorTypeInternal       ErrorType = "internal"
)

// MedtrackError represents a structured error in the medication service
type MedtrackError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *MedtrackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *MedtrackError) Unwrap() error {
	return e.Cause
}

// IsErrorType reports whether err is a MedtrackError of the given type.
func IsErrorType(err error, t ErrorType) bool {
	var me *MedtrackError
	if errors.As(err, &me) {
		return me.Type == t
	}
	return false
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *MedtrackError {
	return &MedtrackError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *MedtrackError {
	return &MedtrackError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

// NewConnectivityError creates a new connectivity error
func NewConnectivityError(message string) *MedtrackError {
	return &MedtrackError{Type: ErrorTypeConnectivity, Code: ErrCodeNoInternet, Message: message}
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(message string, cause error) *MedtrackError {
	return &MedtrackError{Type: ErrorTypePersistence, Code: ErrCodePersistenceFailed, Message: message, Cause: cause}
}

// NewAlarmError creates a new alarm registration error
func NewAlarmError(message string, cause error) *MedtrackError {
	return &MedtrackError{Type: ErrorTypeAlarm, Code: ErrCodeAlarmFailed, Message: message, Cause: cause}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *MedtrackError {
	return &MedtrackError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// Common error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeNoInternet        = "NO_INTERNET"
	ErrCodePersistenceFailed = "PERSISTENCE_FAILED"
	ErrCodeAlarmFailed       = "ALARM_FAILED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)
