package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// DefaultMaxBodyBytes bounds inbound bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

const contentTypeJSON = "application/json"

// Pipeline runs one integration: resolve credential, validate, call
// upstream, normalize. It holds no per-request state.
type Pipeline struct {
	integration  Integration
	caller       *Caller
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewPipeline creates a Pipeline for an integration.
func NewPipeline(integration Integration, caller *Caller, logger *slog.Logger, maxBodyBytes int64) *Pipeline {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Pipeline{
		integration:  integration,
		caller:       caller,
		logger:       logger.With(slog.String("integration", integration.Name())),
		maxBodyBytes: maxBodyBytes,
	}
}

// Name returns the integration name
func (p *Pipeline) Name() string {
	return p.integration.Name()
}

// Serve handles one invocation. It never returns an error: every failure
// is rendered as {"error": message}.
func (p *Pipeline) Serve(ctx context.Context, req Request) Response {
	body, err := p.serve(ctx, req)
	if err != nil {
		return p.fail(err)
	}

	return Response{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       body,
	}
}

func (p *Pipeline) serve(ctx context.Context, req Request) ([]byte, error) {
	if req.Method != p.integration.Method() {
		return nil, MethodNotAllowed()
	}

	raw, err := p.readBody(req.Body)
	if err != nil {
		return nil, err
	}

	// a misconfigured integration answers 500 whatever the payload
	cred, err := p.integration.Credential()
	if err != nil {
		return nil, err
	}

	payload, err := p.integration.Validate(raw)
	if err != nil {
		return nil, err
	}

	up, err := p.integration.Build(ctx, payload)
	if err != nil {
		return nil, TransportError("Server Error: could not build upstream request.", err)
	}
	p.integration.Injector().Inject(up, cred)

	resp, err := p.caller.Do(ctx, p.integration.Name(), up, cred)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) && errors.Is(pe, ErrUpstream) {
			pe.Message = p.integration.UpstreamMessage(pe.Status)
		}
		return nil, err
	}

	out, err := p.integration.Normalize(resp)
	if err != nil {
		p.logger.Error("Upstream response could not be normalized", slog.String("error", err.Error()))
		return nil, TransportError("Server Error: upstream returned an invalid response.", err)
	}

	return out, nil
}

func (p *Pipeline) readBody(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, p.maxBodyBytes+1))
	if err != nil {
		return nil, MalformedJSON(fmt.Errorf("read body: %w", err))
	}

	if int64(len(data)) > p.maxBodyBytes {
		return nil, BodyTooLarge(p.maxBodyBytes)
	}

	return data, nil
}

func (p *Pipeline) fail(err error) Response {
	pe := AsError(err)

	attrs := []any{
		slog.Int("status", pe.Status),
		slog.String("kind", pe.Kind.Error()),
	}
	if pe.Field != "" {
		attrs = append(attrs, slog.String("field", pe.Field))
	}
	if pe.Err != nil {
		attrs = append(attrs, slog.String("error", pe.Err.Error()))
	}

	if pe.Status >= 500 {
		p.logger.Error("Request failed", attrs...)
	} else {
		p.logger.Warn("Request rejected", attrs...)
	}

	return ErrorResponse(pe.Status, pe.Message)
}

// ErrorResponse renders {"error": message}.
func ErrorResponse(status int, message string) Response {
	body, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		body = []byte(`{"error":"Server Error"}`)
	}
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       body,
	}
}

// PassthroughJSON returns the upstream body unchanged once it is known to
// be JSON.
func PassthroughJSON(resp *UpstreamResponse) ([]byte, error) {
	body := bytes.TrimSpace(resp.Body)
	if !json.Valid(body) {
		return nil, fmt.Errorf("upstream body is not valid JSON")
	}
	return resp.Body, nil
}
