package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/chhengkhim/confessboard/pkg/client"
)

// TestNewCLIError creates and validates a CLI error
func TestNewCLIError(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewCLIError(ErrorTypeValidation, "Test error", cause)

	if err.Type != ErrorTypeValidation {
		t.Errorf("Expected type %s, got %s", ErrorTypeValidation, err.Type)
	}
	if err.Message != "Test error" {
		t.Errorf("Expected message 'Test error', got '%s'", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("Cause not reachable through Unwrap")
	}
}

// TestWithSuggestion adds suggestion to error
func TestWithSuggestion(t *testing.T) {
	err := NewCLIError(ErrorTypeUnknown, "Test", nil).WithSuggestion("Try something else")

	if !err.HasSuggestion() {
		t.Error("HasSuggestion returned false")
	}
	if err.Suggestion != "Try something else" {
		t.Errorf("Unexpected suggestion '%s'", err.Suggestion)
	}
}

func TestCategorizeFailure(t *testing.T) {
	tests := []struct {
		kind       client.Kind
		expected   ErrorType
		suggestion bool
	}{
		{client.KindNetwork, ErrorTypeNetwork, true},
		{client.KindUnauthorized, ErrorTypeSessionExpired, true},
		{client.KindForbidden, ErrorTypeForbidden, true},
		{client.KindNotFound, ErrorTypeNotFound, false},
		{client.KindCSRF, ErrorTypeCSRF, true},
		{client.KindValidation, ErrorTypeValidation, false},
		{client.KindServer, ErrorTypeServer, true},
		{client.KindUnknown, ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		failure := &client.Failure{Kind: tt.kind, Message: "message for " + string(tt.kind)}
		wrapped := fmt.Errorf("listing posts: %w", failure)

		cliErr := CategorizeError(wrapped)
		if cliErr.Type != tt.expected {
			t.Errorf("%s: expected type %s, got %s", tt.kind, tt.expected, cliErr.Type)
		}
		if cliErr.Message != failure.Message {
			t.Errorf("%s: message not carried over: %q", tt.kind, cliErr.Message)
		}
		if cliErr.HasSuggestion() != tt.suggestion {
			t.Errorf("%s: suggestion presence = %v", tt.kind, cliErr.HasSuggestion())
		}
	}
}

func TestCategorizeNetworkTimeout(t *testing.T) {
	failure := &client.Failure{Kind: client.KindNetwork, Message: "unreachable", Cause: context.DeadlineExceeded}
	if got := CategorizeError(failure).Type; got != ErrorTypeTimeout {
		t.Errorf("Expected timeout, got %s", got)
	}
}

func TestCategorizePlainErrors(t *testing.T) {
	if got := CategorizeError(context.Canceled).Type; got != ErrorTypeCanceled {
		t.Errorf("Expected canceled, got %s", got)
	}
	if got := CategorizeError(context.DeadlineExceeded).Type; got != ErrorTypeTimeout {
		t.Errorf("Expected timeout, got %s", got)
	}
	if got := CategorizeError(errors.New("odd")).Type; got != ErrorTypeUnknown {
		t.Errorf("Expected unknown, got %s", got)
	}
	if CategorizeError(nil) != nil {
		t.Error("Expected nil for nil error")
	}

	existing := NotLoggedInError()
	if CategorizeError(fmt.Errorf("wrap: %w", existing)) != existing {
		t.Error("Existing CLIError should be returned as is")
	}
}

func TestFormatValidationError(t *testing.T) {
	failure := &client.Failure{
		Kind:    client.KindValidation,
		Message: "The given data was invalid.",
		Errors: map[string][]string{
			"title":   {"The title field is required."},
			"content": {"The content must be at least 10 characters."},
		},
	}

	out := FormatError(failure)
	expected := "Error (validation): The given data was invalid.\n" +
		"  - content: The content must be at least 10 characters.\n" +
		"  - title: The title field is required.\n"
	if out != expected {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestFormatErrorWithSuggestion(t *testing.T) {
	out := FormatError(&client.Failure{Kind: client.KindUnauthorized, Message: "Your session has expired. Please log in again."})

	if !strings.HasPrefix(out, "Error (session_expired): Your session has expired.") {
		t.Errorf("Unexpected header: %s", out)
	}
	if !strings.Contains(out, "Suggestion: Run 'confessboard auth login'") {
		t.Errorf("Missing suggestion: %s", out)
	}
}

func TestFormatUnknownOmitsType(t *testing.T) {
	out := FormatError(errors.New("something broke"))
	if out != "Error: something broke\n" {
		t.Errorf("Unexpected output: %q", out)
	}
	if FormatError(nil) != "" {
		t.Error("Expected empty string for nil")
	}
}

func TestHelpers(t *testing.T) {
	if err := InvalidInputError("id", "must be a number"); err.Message != "Invalid id: must be a number" {
		t.Errorf("Unexpected message %q", err.Message)
	}
	if err := FileNotFoundError("/tmp/x.png"); !strings.Contains(err.Message, "/tmp/x.png") || !err.HasSuggestion() {
		t.Errorf("Unexpected file error %+v", err)
	}
	if err := SessionExpiredError("gone"); err.Type != ErrorTypeSessionExpired {
		t.Errorf("Unexpected type %s", err.Type)
	}
}
