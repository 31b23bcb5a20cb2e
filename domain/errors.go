package domain

import (
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeFileNotFound     = "FILE_NOT_FOUND"
	ErrCodeAnalysisError    = "ANALYSIS_ERROR"
	ErrCodeConfigError      = "CONFIG_ERROR"
	ErrCodeOutputError      = "OUTPUT_ERROR"
	ErrCodeBackupError      = "BACKUP_ERROR"
	ErrCodeBackupNotFound   = "BACKUP_NOT_FOUND"
	ErrCodeRefactoringError = "REFACTORING_ERROR"
	ErrCodeSyntaxError      = "SYNTAX_ERROR"
	ErrCodeTimeout          = "TIMEOUT"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates an invalid input error without a cause
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewBackupError creates a backup operation error
func NewBackupError(message string, cause error) error {
	return NewDomainError(ErrCodeBackupError, message, cause)
}

// NewBackupNotFoundError creates an unknown backup id error
func NewBackupNotFoundError(backupID string) error {
	return NewDomainError(ErrCodeBackupNotFound, fmt.Sprintf("backup not found: %s", backupID), nil)
}

// NewRefactoringError creates a refactoring execution error
func NewRefactoringError(message string, cause error) error {
	return NewDomainError(ErrCodeRefactoringError, message, cause)
}

// NewSyntaxError creates a syntax validation error
func NewSyntaxError(message string) error {
	return NewDomainError(ErrCodeSyntaxError, message, nil)
}

// NewTimeoutError creates a per-task timeout error
func NewTimeoutError(task string) error {
	return NewDomainError(ErrCodeTimeout, fmt.Sprintf("task timed out: %s", task), nil)
}
