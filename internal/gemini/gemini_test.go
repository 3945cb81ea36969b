package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cuongbtq/recruit-proxy/internal/proxy"
	"github.com/cuongbtq/recruit-proxy/shared/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longCV = strings.Repeat("Commercial litigation associate, 4 years PQE. ", 3)

func TestCVAssistant_Validate(t *testing.T) {
	a := NewCVAssistant(Config{APIKey: "k"}, logger.NewDiscard().Logger)

	tests := []struct {
		name      string
		body      string
		wantKind  error
		wantMsg   string
		wantValue string
	}{
		{
			name:     "short prompt",
			body:     `{"prompt": "short"}`,
			wantKind: proxy.ErrInvalidField,
			wantMsg:  "CV prompt content is missing or too short. Minimum 50 characters required.",
		},
		{
			name:     "padded prompt below minimum after trimming",
			body:     `{"prompt": "` + strings.Repeat(" ", 60) + `abc"}`,
			wantKind: proxy.ErrInvalidField,
			wantMsg:  "CV prompt content is missing or too short. Minimum 50 characters required.",
		},
		{
			name:     "missing prompt",
			body:     `{"cv": "text"}`,
			wantKind: proxy.ErrInvalidField,
			wantMsg:  "CV prompt content is missing or too short. Minimum 50 characters required.",
		},
		{
			name:     "empty body",
			body:     ``,
			wantKind: proxy.ErrEmptyBody,
		},
		{
			name:     "malformed json",
			body:     `{"prompt":`,
			wantKind: proxy.ErrMalformedJSON,
		},
		{
			name:      "exactly fifty characters",
			body:      `{"prompt": "` + strings.Repeat("a", MinCVPromptLength) + `"}`,
			wantValue: strings.Repeat("a", MinCVPromptLength),
		},
		{
			name:      "long prompt is trimmed",
			body:      `{"prompt": "  ` + longCV + `  "}`,
			wantValue: strings.TrimSpace(longCV),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := a.Validate([]byte(tt.body))

			if tt.wantKind != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantKind))
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, proxy.AsError(err).Message)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, CVPrompt{Prompt: tt.wantValue}, payload)
		})
	}
}

func TestJDAssistant_Validate(t *testing.T) {
	a := NewJDAssistant(Config{APIKey: "k"}, logger.NewDiscard().Logger)

	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
		want      JobBrief
	}{
		{
			name:      "missing title",
			body:      `{"details": "2 years experience"}`,
			wantField: "title",
			wantMsg:   "Job title is missing.",
		},
		{
			name:      "blank title",
			body:      `{"title": "   ", "details": "2 years experience"}`,
			wantField: "title",
			wantMsg:   "Job title is missing.",
		},
		{
			name:      "missing details",
			body:      `{"title": "Paralegal"}`,
			wantField: "details",
			wantMsg:   "Job key details are missing.",
		},
		{
			name:      "details wrong type",
			body:      `{"title": "Paralegal", "details": ["a"]}`,
			wantField: "details",
			wantMsg:   "Job key details are missing.",
		},
		{
			name: "valid",
			body: `{"title":"Paralegal","details":"2 years experience"}`,
			want: JobBrief{Title: "Paralegal", Details: "2 years experience"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := a.Validate([]byte(tt.body))

			if tt.wantField != "" {
				require.Error(t, err)
				pe := proxy.AsError(err)
				assert.Equal(t, http.StatusBadRequest, pe.Status)
				assert.Equal(t, tt.wantField, pe.Field)
				assert.Equal(t, tt.wantMsg, pe.Message)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, payload)
		})
	}
}

func TestAssistant_Credential(t *testing.T) {
	_, err := NewCVAssistant(Config{}, logger.NewDiscard().Logger).Credential()
	require.Error(t, err)
	assert.True(t, errors.Is(err, proxy.ErrConfiguration))
	assert.Equal(t, http.StatusInternalServerError, proxy.AsError(err).Status)
	assert.Equal(t, "Server configuration error: API key missing.", proxy.AsError(err).Message)

	cred, err := NewJDAssistant(Config{APIKey: "AIza-1"}, logger.NewDiscard().Logger).Credential()
	require.NoError(t, err)
	assert.Equal(t, "AIza-1", cred.Reveal())
}

func TestAssistant_MissingKeyIgnoresPayload(t *testing.T) {
	tests := []struct {
		name  string
		build func(cfg Config) proxy.Integration
		body  string
	}{
		{name: "cv short prompt", build: cvIntegration, body: `{"prompt":"short"}`},
		{name: "cv malformed json", build: cvIntegration, body: `{bad`},
		{name: "cv empty body", build: cvIntegration, body: ``},
		{name: "jd missing title", build: jdIntegration, body: `{"details":"2 years experience"}`},
		{name: "jd valid brief", build: jdIntegration, body: `{"title":"Paralegal","details":"2 years experience"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := fakeGemini(t, http.StatusOK, `{}`)
			log := logger.NewDiscard().Logger
			p := proxy.NewPipeline(tt.build(Config{BaseURL: srv.URL}), proxy.NewCaller(srv.Client(), log), log, 0)

			resp := p.Serve(context.Background(), proxy.Request{Method: http.MethodPost, Body: strings.NewReader(tt.body)})

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.JSONEq(t, `{"error":"Server configuration error: API key missing."}`, string(resp.Body))
			assert.Empty(t, rec.path)
		})
	}
}

func cvIntegration(cfg Config) proxy.Integration {
	return NewCVAssistant(cfg, logger.NewDiscard().Logger)
}

func jdIntegration(cfg Config) proxy.Integration {
	return NewJDAssistant(cfg, logger.NewDiscard().Logger)
}

func TestCVAssistant_BuildPayload(t *testing.T) {
	a := NewCVAssistant(Config{BaseURL: "https://gl.example.com/", Model: "gemini-test"}, logger.NewDiscard().Logger)

	req, err := a.Build(context.Background(), CVPrompt{Prompt: longCV})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://gl.example.com/v1beta/models/gemini-test:generateContent", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))

	// the model lives in the URL only
	assert.NotContains(t, body, "model")
	assert.Len(t, body, 2)

	var payload generateRequest
	require.NoError(t, json.Unmarshal(req.Body, &payload))
	require.Len(t, payload.Contents, 1)
	require.Len(t, payload.Contents[0].Parts, 1)
	assert.Equal(t, "Here is the CV text:\n\n"+longCV, payload.Contents[0].Parts[0].Text)
	require.NotNil(t, payload.SystemInstruction)
	assert.Equal(t, cvPersona, payload.SystemInstruction.Parts[0].Text)
}

func TestJDAssistant_BuildPayload(t *testing.T) {
	a := NewJDAssistant(Config{}, logger.NewDiscard().Logger)

	req, err := a.Build(context.Background(), JobBrief{Title: "Paralegal", Details: "2 years experience"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL+"/v1beta/models/"+DefaultModel+":generateContent", req.URL.String())

	var payload generateRequest
	require.NoError(t, json.Unmarshal(req.Body, &payload))
	assert.Equal(t, "Job Title: Paralegal\n\nKey Details: 2 years experience", payload.Contents[0].Parts[0].Text)
	assert.Equal(t, jdPersona, payload.SystemInstruction.Parts[0].Text)
}

func TestAssistant_BuildRejectsWrongPayload(t *testing.T) {
	_, err := NewCVAssistant(Config{}, logger.NewDiscard().Logger).Build(context.Background(), JobBrief{})
	assert.Error(t, err)

	_, err = NewJDAssistant(Config{}, logger.NewDiscard().Logger).Build(context.Background(), CVPrompt{})
	assert.Error(t, err)
}

func TestAssistant_Injector(t *testing.T) {
	query := NewCVAssistant(Config{AuthStyle: AuthQuery}, logger.NewDiscard().Logger)
	assert.Equal(t, proxy.QueryKey{Name: "key"}, query.Injector())

	header := NewCVAssistant(Config{AuthStyle: AuthHeader}, logger.NewDiscard().Logger)
	assert.Equal(t, proxy.HeaderKey{Name: "x-goog-api-key"}, header.Injector())

	fallback := NewCVAssistant(Config{}, logger.NewDiscard().Logger)
	assert.Equal(t, proxy.QueryKey{Name: "key"}, fallback.Injector())
}

type recorded struct {
	path   string
	query  string
	apiKey string
	body   []byte
}

func fakeGemini(t *testing.T, status int, respBody string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.apiKey = r.Header.Get("x-goog-api-key")
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestJDAssistant_EndToEnd(t *testing.T) {
	upstreamBody := `{"candidates":[{"content":{"parts":[{"text":"**The Role**"}],"role":"model"}}]}`

	tests := []struct {
		name      string
		authStyle string
		check     func(t *testing.T, rec *recorded)
	}{
		{
			name:      "key in query",
			authStyle: AuthQuery,
			check: func(t *testing.T, rec *recorded) {
				assert.Equal(t, "key=AIza-test", rec.query)
				assert.Empty(t, rec.apiKey)
			},
		},
		{
			name:      "key in header",
			authStyle: AuthHeader,
			check: func(t *testing.T, rec *recorded) {
				assert.Empty(t, rec.query)
				assert.Equal(t, "AIza-test", rec.apiKey)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := fakeGemini(t, http.StatusOK, upstreamBody)
			log := logger.NewDiscard().Logger
			a := NewJDAssistant(Config{BaseURL: srv.URL, Model: "gemini-2.5-flash", AuthStyle: tt.authStyle, APIKey: "AIza-test"}, log)
			p := proxy.NewPipeline(a, proxy.NewCaller(srv.Client(), log), log, 0)

			resp := p.Serve(context.Background(), proxy.Request{
				Method: http.MethodPost,
				Body:   strings.NewReader(`{"title":"Paralegal","details":"2 years experience"}`),
			})

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, upstreamBody, string(resp.Body))
			assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", rec.path)
			assert.NotContains(t, string(rec.body), "gemini-2.5-flash")
			tt.check(t, rec)
		})
	}
}

func TestCVAssistant_UpstreamFailure(t *testing.T) {
	srv, _ := fakeGemini(t, http.StatusBadRequest, `{"error":{"code":400,"message":"Invalid JSON payload received. Unknown name \"model\""}}`)
	log := logger.NewDiscard().Logger
	a := NewCVAssistant(Config{BaseURL: srv.URL, APIKey: "AIza-test"}, log)
	p := proxy.NewPipeline(a, proxy.NewCaller(srv.Client(), log), log, 0)

	resp := p.Serve(context.Background(), proxy.Request{
		Method: http.MethodPost,
		Body:   strings.NewReader(`{"prompt":"` + longCV + `"}`),
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Gemini API call failed with status 400."}`, string(resp.Body))
}

func TestFirstText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "first candidate first part",
			body: `{"candidates":[{"content":{"parts":[{"text":"one"},{"text":"two"}]}},{"content":{"parts":[{"text":"three"}]}}]}`,
			want: "one",
		},
		{name: "no candidates", body: `{"candidates":[]}`, want: NoTextFallback},
		{name: "no parts", body: `{"candidates":[{"content":{"parts":[]}}]}`, want: NoTextFallback},
		{name: "no content", body: `{"candidates":[{}]}`, want: NoTextFallback},
		{name: "empty text", body: `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`, want: NoTextFallback},
		{name: "not json", body: `oops`, want: NoTextFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstText([]byte(tt.body)))
		})
	}
}
