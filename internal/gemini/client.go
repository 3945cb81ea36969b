package gemini

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/cuongbtq/recruit-proxy/internal/proxy"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"

	AuthQuery  = "query"
	AuthHeader = "header"

	apiKeyHeader = "x-goog-api-key"
	apiKeyParam  = "key"
)

// Config defines generative-language API settings
type Config struct {
	BaseURL   string
	Model     string
	AuthStyle string
	APIKey    string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// generateRequest is the generateContent body. The model is named only in
// the URL path; sending it in the body as well is rejected upstream.
type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

// assistant holds what both Gemini integrations share: endpoint,
// credential handling and passthrough normalization.
type assistant struct {
	baseURL  string
	model    string
	apiKey   string
	injector proxy.Injector
	logger   *slog.Logger
}

func newAssistant(cfg Config, logger *slog.Logger) assistant {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	var injector proxy.Injector = proxy.QueryKey{Name: apiKeyParam}
	if cfg.AuthStyle == AuthHeader {
		injector = proxy.HeaderKey{Name: apiKeyHeader}
	}

	return assistant{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		model:    model,
		apiKey:   cfg.APIKey,
		injector: injector,
		logger:   logger,
	}
}

func (a *assistant) Method() string {
	return http.MethodPost
}

func (a *assistant) Credential() (proxy.Credential, error) {
	return proxy.RequireSecrets("Server configuration error: API key missing.", a.apiKey)
}

func (a *assistant) Injector() proxy.Injector {
	return a.injector
}

func (a *assistant) UpstreamMessage(status int) string {
	return fmt.Sprintf("Gemini API call failed with status %d.", status)
}

// Normalize passes the upstream JSON through unchanged.
func (a *assistant) Normalize(resp *proxy.UpstreamResponse) ([]byte, error) {
	body, err := proxy.PassthroughJSON(resp)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Gemini response received",
		slog.Bool("has_text", FirstText(body) != NoTextFallback),
	)

	return body, nil
}

// endpoint returns <base>/v1beta/models/<model>:generateContent
func (a *assistant) endpoint() (*url.URL, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return nil, fmt.Errorf("gemini: parse base url: %w", err)
	}

	u.Path = path.Join(u.Path, "v1beta", "models", a.model+":generateContent")
	return u, nil
}

func (a *assistant) request(persona, text string) (*proxy.UpstreamRequest, error) {
	u, err := a.endpoint()
	if err != nil {
		return nil, err
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		SystemInstruction: &content{
			Parts: []part{{Text: persona}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode payload: %w", err)
	}

	req := proxy.NewUpstreamRequest(http.MethodPost, u, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}
