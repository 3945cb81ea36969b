package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cuongbtq/recruit-proxy/internal/proxy"
)

// Config defines the generic proxy target
type Config struct {
	Endpoint string
	APIKey   string
}

// Relay is the api-proxy integration: any JSON body is forwarded to a
// fixed endpoint with a bearer credential attached.
type Relay struct {
	endpoint string
	apiKey   string
}

// New creates the api-proxy integration
func New(cfg Config) *Relay {
	return &Relay{endpoint: cfg.Endpoint, apiKey: cfg.APIKey}
}

func (r *Relay) Name() string {
	return "api-proxy"
}

func (r *Relay) Method() string {
	return http.MethodPost
}

func (r *Relay) Validate(body []byte) (any, error) {
	return proxy.DecodeAny(body)
}

func (r *Relay) Credential() (proxy.Credential, error) {
	return proxy.RequireSecrets("Server configuration error: API key missing.", r.apiKey, r.endpoint)
}

func (r *Relay) Injector() proxy.Injector {
	return proxy.BearerToken{}
}

func (r *Relay) UpstreamMessage(status int) string {
	return fmt.Sprintf("External API call failed with status %d.", status)
}

func (r *Relay) Build(_ context.Context, payload any) (*proxy.UpstreamRequest, error) {
	body, ok := payload.(json.RawMessage)
	if !ok {
		return nil, fmt.Errorf("api-proxy: unexpected payload %T", payload)
	}

	u, err := url.Parse(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("api-proxy: parse endpoint: %w", err)
	}

	req := proxy.NewUpstreamRequest(http.MethodPost, u, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (r *Relay) Normalize(resp *proxy.UpstreamResponse) ([]byte, error) {
	return proxy.PassthroughJSON(resp)
}
