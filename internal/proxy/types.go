package proxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Request is the inbound side of one invocation. Body is read only after
// the method has been accepted.
type Request struct {
	Method string
	Body   io.Reader
}

// Response is the only externally observable result of an invocation.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// UpstreamRequest is built fresh for every invocation and never reused.
type UpstreamRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// NewUpstreamRequest returns a request with an initialised header map.
func NewUpstreamRequest(method string, u *url.URL, body []byte) *UpstreamRequest {
	return &UpstreamRequest{
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   body,
	}
}

// Redacted returns the URL without its query string, for logging.
func (r *UpstreamRequest) Redacted() string {
	u := *r.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

// UpstreamResponse is read once and handed to the integration's normalizer.
type UpstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Credential is a resolved upstream secret. Its string and log forms are
// always redacted; Reveal is the only way to read the value.
type Credential string

const redactedCredential = "[REDACTED]"

func (c Credential) String() string {
	return redactedCredential
}

func (c Credential) GoString() string {
	return redactedCredential
}

func (c Credential) LogValue() slog.Value {
	return slog.StringValue(redactedCredential)
}

// Reveal returns the raw secret. Only injectors should call it.
func (c Credential) Reveal() string {
	return string(c)
}

// Integration is one upstream route through the pipeline: cv-assistant,
// jd-assistant, fetch-jobs or api-proxy.
type Integration interface {
	// Name identifies the integration in logs and routes.
	Name() string
	// Method is the only inbound HTTP method accepted.
	Method() string
	// Validate turns the raw body into the integration payload.
	Validate(body []byte) (any, error)
	// Credential resolves the secret, failing closed with a ConfigurationError.
	Credential() (Credential, error)
	// Injector attaches the credential to the upstream request.
	Injector() Injector
	// Build constructs the upstream request for a validated payload.
	Build(ctx context.Context, payload any) (*UpstreamRequest, error)
	// Normalize turns a 2xx upstream body into the outbound body.
	Normalize(resp *UpstreamResponse) ([]byte, error)
	// UpstreamMessage is the caller-visible text for a non-2xx upstream status.
	UpstreamMessage(status int) string
}
