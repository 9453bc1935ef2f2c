package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeSchema means a required column is missing from an input
	// table. Fatal: the whole run aborts and no output is written.
	ErrTypeSchema ErrorType = "SCHEMA"
	// ErrTypeParse means a single row's fields could not be converted
	// to the required semantic type.
	ErrTypeParse    ErrorType = "PARSE"
	ErrTypeStorage  ErrorType = "STORAGE"
	ErrTypeNetwork  ErrorType = "NETWORK"
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeNotFound ErrorType = "NOT_FOUND"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRow attaches the standard row-locating context (course prefix,
// semester, zero-based row index) to a per-row error.
func (e *AppError) WithRow(prefix, semester string, index int) *AppError {
	return e.
		WithContext("course_prefix", prefix).
		WithContext("semester", semester).
		WithContext("row_index", index)
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for the common error types

// NewSchemaError creates an input-schema error
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewParseError creates a row-level parse error
func NewParseError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParse, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsSchema reports whether err is a schema error.
func IsSchema(err error) bool { return IsType(err, ErrTypeSchema) }

// IsParse reports whether err is a parse error.
func IsParse(err error) bool { return IsType(err, ErrTypeParse) }
