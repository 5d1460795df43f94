package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// Kind classifies a Failure.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindCSRF         Kind = "csrf"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
	KindUnknown      Kind = "unknown"
)

// generalErrorsKey holds validation messages the server sent as a plain list.
const generalErrorsKey = "general"

// Failure is the single normalized error shape: {success:false, message,
// errors?}. Every transport error reaching the api layer is a *Failure,
// except context cancellation which is passed through.
type Failure struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
	StatusCode int                 `json:"-"`
	Kind       Kind                `json:"-"`
	Cause      error               `json:"-"`
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// FieldMessages flattens the validation map into "field: message" lines
// in stable order.
func (f *Failure) FieldMessages() []string {
	fields := make([]string, 0, len(f.Errors))
	for field := range f.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var lines []string
	for _, field := range fields {
		for _, msg := range f.Errors[field] {
			if field == generalErrorsKey {
				lines = append(lines, msg)
			} else {
				lines = append(lines, fmt.Sprintf("%s: %s", field, msg))
			}
		}
	}
	return lines
}

// errorBody is the backend's error envelope. errors may be a field map
// or a plain list.
type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeFieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var byField map[string][]string
	if err := json.Unmarshal(raw, &byField); err == nil {
		return byField
	}

	// {"field": "single message"}
	var single map[string]string
	if err := json.Unmarshal(raw, &single); err == nil {
		out := make(map[string][]string, len(single))
		for k, v := range single {
			out[k] = []string{v}
		}
		return out
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return map[string][]string{generalErrorsKey: list}
	}
	return nil
}

// CheckResponse turns a resty result into nil or a normalized error
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return normalizeTransportError(err)
	}
	if resp == nil {
		return &Failure{Kind: KindUnknown, Message: "Empty response from server."}
	}
	if resp.IsSuccess() {
		return nil
	}
	return ParseFailure(resp)
}

func normalizeTransportError(err error) error {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &Failure{
		Kind:    KindNetwork,
		Message: "Unable to reach the server. Please check your connection and try again.",
		Cause:   err,
	}
}

// ParseFailure builds a Failure from a non-2xx response
func ParseFailure(resp *resty.Response) *Failure {
	status := resp.StatusCode()

	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)
	message := body.Message
	if message == "" {
		message = body.Error
	}

	f := &Failure{StatusCode: status}

	switch {
	case status == http.StatusUnauthorized:
		f.Kind = KindUnauthorized
		f.Message = orDefault(message, "Your session has expired. Please log in again.")
	case status == http.StatusForbidden:
		f.Kind = KindForbidden
		f.Message = orDefault(message, "You do not have permission to perform this action.")
	case status == http.StatusNotFound:
		f.Kind = KindNotFound
		f.Message = orDefault(message, "The requested resource was not found.")
	case status == 419:
		// Token-based clients never carry a CSRF cookie
		logger.Warn("Received 419 CSRF response; the backend is applying session middleware to a token-authenticated route",
			"url", resp.Request.URL)
		f.Kind = KindCSRF
		f.Message = "Request rejected by CSRF protection (419). The server configuration does not match this token-based client."
	case status == http.StatusUnprocessableEntity:
		f.Kind = KindValidation
		f.Message = orDefault(message, "The given data was invalid.")
		f.Errors = decodeFieldErrors(body.Errors)
	case status >= 500:
		f.Kind = KindServer
		f.Message = orDefault(message, "Server error. Please try again later.")
	default:
		f.Kind = KindUnknown
		f.Message = orDefault(message, resp.Status())
		f.Errors = decodeFieldErrors(body.Errors)
	}
	return f
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func kindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return kindOf(err) == KindUnauthorized
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return kindOf(err) == KindForbidden
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsValidation checks if error carries field validation messages
func IsValidation(err error) bool {
	return kindOf(err) == KindValidation
}

// IsNetwork checks if no response was received at all
func IsNetwork(err error) bool {
	return kindOf(err) == KindNetwork
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	return kindOf(err) == KindServer
}
