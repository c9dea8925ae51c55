package domain

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeDirectoryNotFound = "DIRECTORY_NOT_FOUND"
	ErrCodePermissionDenied  = "PERMISSION_DENIED"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeScanCancelled     = "SCAN_CANCELLED"
	ErrCodeNoScan            = "NO_SCAN"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewDirectoryNotFoundError is returned when the scan root is missing or not a directory
func NewDirectoryNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeDirectoryNotFound, fmt.Sprintf("directory not found: %s", path), cause)
}

// NewPermissionDeniedError is returned when the scan root cannot be listed
func NewPermissionDeniedError(path string, cause error) error {
	return NewDomainError(ErrCodePermissionDenied, fmt.Sprintf("permission denied: %s", path), cause)
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewScanCancelledError creates a cancellation error
func NewScanCancelledError(path string, cause error) error {
	return NewDomainError(ErrCodeScanCancelled, fmt.Sprintf("scan of %s cancelled", path), cause)
}

// NewNoScanError is returned when results are requested before any scan ran
func NewNoScanError() error {
	return NewDomainError(ErrCodeNoScan, "no directory has been scanned", nil)
}

// HasCode reports whether err (or anything it wraps) is a DomainError with the given code
func HasCode(err error, code string) bool {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
