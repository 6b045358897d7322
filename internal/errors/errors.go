package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeStructural    = "STRUCTURAL_ERROR"
	CodeFit           = "FIT_ERROR"
	CodeTest          = "TEST_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeIO            = "IO_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// ConfigInvalid flags a bad threshold or environment setting.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// Structural flags input that is fundamentally unusable (zero rows, zero
// numeric columns). It is the only error class that aborts a pipeline run.
func Structural(message string) *AppError {
	return New(CodeStructural, message)
}

// Fit flags a candidate model that failed to fit. It is recorded on the
// ModelResult, never propagated past the selector.
func Fit(format string, args ...interface{}) *AppError {
	return New(CodeFit, fmt.Sprintf(format, args...))
}

// Test flags a diagnostic that could not be computed.
func Test(format string, args ...interface{}) *AppError {
	return New(CodeTest, fmt.Sprintf(format, args...))
}

// InvalidInput flags caller-supplied arguments that make no sense.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// IO flags a file read/parse failure in the loader adapters.
func IO(message string, cause error) *AppError {
	return &AppError{Code: CodeIO, Message: message, Cause: cause}
}
