package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput    = errors.New("input buffer is empty")
	ErrEmptyResult   = errors.New("no documents found in a non-empty buffer")
	ErrNoInput       = errors.New("no input provided: pass dump files as arguments or pipe data to stdin")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeEmptyInput  ErrorType = "empty_input"
	ErrorTypeFraming     ErrorType = "framing"
	ErrorTypeDecode      ErrorType = "decode"
	ErrorTypeEmptyResult ErrorType = "empty_result"
	ErrorTypeInput       ErrorType = "input"
	ErrorTypeOutput      ErrorType = "output"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// ConvertError is an application-specific error with context. Buffer is the
// display name of the input the error belongs to; it is stamped on by the
// converter so a batch failure always names its offending buffer.
type ConvertError struct {
	Type    ErrorType
	Buffer  string
	Message string
	Err     error
}

// Error implements error interface
func (e *ConvertError) Error() string {
	var prefix string
	if e.Buffer != "" {
		prefix = fmt.Sprintf("%s: %s", e.Buffer, e.Type)
	} else {
		prefix = string(e.Type)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns wrapped error
func (e *ConvertError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *ConvertError) Is(target error) bool {
	// Check if target is also a *ConvertError and if the types match
	t, ok := target.(*ConvertError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewEmptyInputError creates the error for a zero-length buffer
func NewEmptyInputError() *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeEmptyInput,
		Message: "buffer contains no data",
		Err:     ErrEmptyInput,
	}
}

// NewFramingError creates a new error for a corrupt length prefix
func NewFramingError(message string, err error) *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeFraming,
		Message: message,
		Err:     err,
	}
}

// NewDecodeError creates a new error for a document the BSON codec rejects
func NewDecodeError(message string, err error) *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeDecode,
		Message: message,
		Err:     err,
	}
}

// NewEmptyResultError creates the error for a non-empty buffer that framed
// into zero documents
func NewEmptyResultError() *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeEmptyResult,
		Message: "buffer is non-empty but holds no complete document",
		Err:     ErrEmptyResult,
	}
}

// NewInputError creates a new error related to input acquisition
func NewInputError(message string, err error) *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to writing results
func NewOutputError(message string, err error) *ConvertError {
	return &ConvertError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// ForBuffer stamps the buffer name onto a *ConvertError so failure results
// always name the input they came from. Other errors are wrapped as unknown.
func ForBuffer(name string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConvertError
	if errors.As(err, &ce) {
		ce.Buffer = name
		return ce
	}
	return &ConvertError{
		Type:    ErrorTypeUnknown,
		Buffer:  name,
		Message: "conversion failed",
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var convErr *ConvertError
	if errors.As(err, &convErr) {
		name := convErr.Buffer
		if name == "" {
			name = "input"
		}
		switch convErr.Type {
		case ErrorTypeEmptyInput:
			return fmt.Sprintf("%s: the file is empty", name)
		case ErrorTypeFraming:
			return fmt.Sprintf("%s: the dump is corrupt: %s", name, convErr.Message)
		case ErrorTypeDecode:
			return fmt.Sprintf("%s: a document could not be decoded: %s", name, convErr.Message)
		case ErrorTypeEmptyResult:
			return fmt.Sprintf("%s: no documents were found", name)
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", convErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", convErr.Message)
		default:
			return fmt.Sprintf("%s: %s", name, convErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Pass dump files as arguments or pipe data to stdin."
	}
	if errors.Is(err, ErrInvalidConfig) {
		return fmt.Sprintf("Configuration error: %v", err)
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
