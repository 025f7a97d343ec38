package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes reported by a failed run.
const (
	CodeConfig      = "CONFIG_ERROR"
	CodeInput       = "INPUT_ERROR"
	CodeVendorTable = "VENDOR_TABLE_ERROR"
	CodeExtraction  = "EXTRACTION_ERROR"
	CodeCatalog     = "CATALOG_ERROR"
	CodeCompose     = "COMPOSE_ERROR"
)

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrVendorTable  = errors.New("vendor table unavailable")
	ErrExtraction   = errors.New("text extraction failed")
	ErrCatalog      = errors.New("invalid item catalog")
	ErrCompose      = errors.New("document composition failed")
	ErrValidation   = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Newf builds an AppError whose cause chain includes both the sentinel and err,
// so errors.Is matches either.
func Newf(code string, sentinel, err error, format string, args ...any) *AppError {
	cause := sentinel
	if err != nil {
		cause = fmt.Errorf("%w: %w", sentinel, err)
	}
	return NewAppError(code, fmt.Sprintf(format, args...), cause)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf returns the AppError code in err's chain, or "" when there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
