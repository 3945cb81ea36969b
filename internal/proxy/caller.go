package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/recruit-proxy/shared/logger"
)

// maxLoggedErrorBody caps how much of an upstream error body reaches the logs
const maxLoggedErrorBody = 4096

// Caller performs exactly one upstream HTTP call per invocation. It sets no
// timeout of its own and never retries; the inbound request context is the
// only bound.
type Caller struct {
	client *http.Client
	logger *slog.Logger
}

// NewCaller creates a Caller. A nil client uses a fresh http.Client without
// a timeout.
func NewCaller(client *http.Client, logger *slog.Logger) *Caller {
	if client == nil {
		client = &http.Client{}
	}
	return &Caller{client: client, logger: logger}
}

// Do sends the request and classifies the outcome. Non-2xx responses become
// an UpstreamError carrying the status; the raw body is logged, redacted,
// and never returned.
func (c *Caller) Do(ctx context.Context, integration string, up *UpstreamRequest, cred Credential) (*UpstreamResponse, error) {
	var body io.Reader
	if up.Body != nil {
		body = bytes.NewReader(up.Body)
	}

	req, err := http.NewRequestWithContext(ctx, up.Method, up.URL.String(), body)
	if err != nil {
		return nil, TransportError("Server Error: could not build upstream request.", fmt.Errorf("build request: %s", logger.Redact(err.Error(), cred.Reveal())))
	}
	req.Header = up.Header.Clone()

	resp, err := c.client.Do(req)
	if err != nil {
		// *url.Error embeds the full URL, which may carry the key
		detail := logger.Redact(err.Error(), cred.Reveal())
		c.logger.Error("Upstream request failed",
			slog.String("integration", integration),
			slog.String("method", up.Method),
			slog.String("url", up.Redacted()),
			slog.String("error", detail),
		)
		return nil, TransportError("Server Error: upstream request failed.", fmt.Errorf("upstream request: %s", detail))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read upstream response",
			slog.String("integration", integration),
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return nil, TransportError("Server Error: upstream request failed.", fmt.Errorf("read upstream body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("Upstream API returned an error",
			slog.String("integration", integration),
			slog.String("url", up.Redacted()),
			slog.Int("status", resp.StatusCode),
			slog.String("body", logger.Redact(string(truncate(data, maxLoggedErrorBody)), cred.Reveal())),
		)
		return nil, UpstreamError(resp.StatusCode, fmt.Errorf("%s returned status %d", integration, resp.StatusCode))
	}

	c.logger.Debug("Upstream call succeeded",
		slog.String("integration", integration),
		slog.Int("status", resp.StatusCode),
		slog.Int("body_size", len(data)),
	)

	return &UpstreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
