// Package errors turns failures into what the CLI prints: a category, a
// message, field-level validation lines and a suggestion.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/chhengkhim/confessboard/pkg/client"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"

	// Authentication errors
	ErrorTypeUnauthorized   ErrorType = "unauthorized"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeSessionExpired ErrorType = "session_expired"

	// Request errors
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeCSRF         ErrorType = "csrf"
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeServer       ErrorType = "server"
	ErrorTypeCanceled     ErrorType = "canceled"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Fields     []string
	Cause      error
	Suggestion string
	StatusCode int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// SessionExpiredError is shown after a 401 cleared the session
func SessionExpiredError(message string) *CLIError {
	err := NewCLIError(ErrorTypeSessionExpired, message, nil)
	err.Suggestion = "Run 'confessboard auth login' to sign in again."
	return err
}

// NotLoggedInError is shown before a call that needs a token
func NotLoggedInError() *CLIError {
	err := NewCLIError(ErrorTypeUnauthorized, "You are not logged in", nil)
	err.Suggestion = "Run 'confessboard auth login' first."
	return err
}

// InvalidInputError reports a bad flag or argument
func InvalidInputError(field, reason string) *CLIError {
	return NewCLIError(ErrorTypeInvalidInput, fmt.Sprintf("Invalid %s: %s", field, reason), nil)
}

// FileNotFoundError creates a file not found error
func FileNotFoundError(path string) *CLIError {
	err := NewCLIError(ErrorTypeFileNotFound, fmt.Sprintf("File not found: %s", path), nil)
	err.Suggestion = "Check the file path and try again."
	return err
}

// fromFailure maps a normalized transport failure onto the CLI taxonomy
func fromFailure(f *client.Failure) *CLIError {
	cliErr := &CLIError{Message: f.Message, Cause: f, StatusCode: f.StatusCode}

	switch f.Kind {
	case client.KindNetwork:
		cliErr.Type = ErrorTypeNetwork
		if isTimeout(f.Cause) {
			cliErr.Type = ErrorTypeTimeout
			cliErr.Suggestion = "The server is taking too long to respond. Try again in a moment."
		} else {
			cliErr.Suggestion = "Check that the API is reachable at the configured api.base_url."
		}
	case client.KindUnauthorized:
		cliErr.Type = ErrorTypeSessionExpired
		cliErr.Suggestion = "Run 'confessboard auth login' to sign in again."
	case client.KindForbidden:
		cliErr.Type = ErrorTypeForbidden
		cliErr.Suggestion = "This action needs an account with the required role."
	case client.KindNotFound:
		cliErr.Type = ErrorTypeNotFound
	case client.KindCSRF:
		cliErr.Type = ErrorTypeCSRF
		cliErr.Suggestion = "The backend applies session (CSRF) middleware to API routes. Ask an administrator to check its configuration."
	case client.KindValidation:
		cliErr.Type = ErrorTypeValidation
		cliErr.Fields = f.FieldMessages()
	case client.KindServer:
		cliErr.Type = ErrorTypeServer
		cliErr.Suggestion = "The server encountered an error. Try again in a few moments."
	default:
		cliErr.Type = ErrorTypeUnknown
		cliErr.Fields = f.FieldMessages()
	}
	return cliErr
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
}

// CategorizeError converts a standard error into a CLIError
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	// Check if it's already a CLIError
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var failure *client.Failure
	if errors.As(err, &failure) {
		return fromFailure(failure)
	}

	switch {
	case errors.Is(err, context.Canceled):
		return NewCLIError(ErrorTypeCanceled, "Canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		cliErr = NewCLIError(ErrorTypeTimeout, "Request timed out", err)
		return cliErr.WithSuggestion("The server is taking too long to respond. Try again in a moment.")
	default:
		return NewCLIError(ErrorTypeUnknown, err.Error(), err)
	}
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	// Format the main error message
	sb.WriteString("Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	for _, line := range cliErr.Fields {
		sb.WriteString("  - ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	// Add suggestion if available
	if cliErr.HasSuggestion() {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}
