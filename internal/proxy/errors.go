package proxy

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMethodNotAllowed is returned when the inbound method does not match the integration
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrEmptyBody is returned when a required request body is absent or blank
	ErrEmptyBody = errors.New("empty request body")

	// ErrBodyTooLarge is returned when the request body exceeds the configured limit
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrMalformedJSON is returned when the request body is not valid JSON
	ErrMalformedJSON = errors.New("malformed json")

	// ErrInvalidField is returned when a required field is missing or fails its policy
	ErrInvalidField = errors.New("missing or invalid field")

	// ErrConfiguration is returned when a required upstream secret or identifier is unset
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstream is returned when the upstream API answers with a non-2xx status
	ErrUpstream = errors.New("upstream error")

	// ErrTransport is returned when the upstream call itself fails
	ErrTransport = errors.New("transport error")
)

// Error is a classified pipeline failure. Message is safe to show to the
// caller; Err holds operator-side detail and is never rendered.
type Error struct {
	Kind    error
	Status  int
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error's kind, so errors.Is(err, ErrUpstream) works.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func MethodNotAllowed() *Error {
	return &Error{Kind: ErrMethodNotAllowed, Status: http.StatusMethodNotAllowed, Message: "Method Not Allowed"}
}

func EmptyBody() *Error {
	return &Error{Kind: ErrEmptyBody, Status: http.StatusBadRequest, Message: "Request body is empty. Please ensure data is sent."}
}

func BodyTooLarge(limit int64) *Error {
	return &Error{
		Kind:    ErrBodyTooLarge,
		Status:  http.StatusRequestEntityTooLarge,
		Message: fmt.Sprintf("Request body exceeds the %d byte limit.", limit),
	}
}

func MalformedJSON(err error) *Error {
	return &Error{Kind: ErrMalformedJSON, Status: http.StatusBadRequest, Message: "Invalid JSON input. Please ensure data is sent.", Err: err}
}

// InvalidField reports which field failed validation.
func InvalidField(field, message string) *Error {
	return &Error{Kind: ErrInvalidField, Status: http.StatusBadRequest, Message: message, Field: field}
}

// ConfigurationError is always a 500: the browser cannot correct it.
func ConfigurationError(message string) *Error {
	return &Error{Kind: ErrConfiguration, Status: http.StatusInternalServerError, Message: message}
}

// UpstreamError keeps the upstream status code. The message is filled in by
// the integration so the upstream body never reaches the caller.
func UpstreamError(status int, err error) *Error {
	return &Error{Kind: ErrUpstream, Status: status, Message: fmt.Sprintf("Upstream API call failed with status %d.", status), Err: err}
}

func TransportError(message string, err error) *Error {
	return &Error{Kind: ErrTransport, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// AsError classifies any error. Unclassified errors become a generic 500.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return TransportError("Server Error: internal failure.", err)
}
