package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cuongbtq/recruit-proxy/internal/proxy"
)

const (
	DefaultBaseURL = "https://api.airtable.com"
	DefaultView    = "Grid view"
)

// JobsFeed is the fetch-jobs integration: one GET against the jobs table,
// projected into JobRecords.
type JobsFeed struct {
	baseURL       string
	token         string
	baseID        string
	tableName     string
	view          string
	filterFormula string
	logger        *slog.Logger
}

// NewJobsFeed creates the fetch-jobs integration
func NewJobsFeed(cfg Config, logger *slog.Logger) *JobsFeed {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	view := cfg.View
	if view == "" {
		view = DefaultView
	}

	return &JobsFeed{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		token:         cfg.Token,
		baseID:        cfg.BaseID,
		tableName:     cfg.TableName,
		view:          view,
		filterFormula: cfg.FilterFormula,
		logger:        logger,
	}
}

func (f *JobsFeed) Name() string {
	return "fetch-jobs"
}

func (f *JobsFeed) Method() string {
	return http.MethodGet
}

// Validate ignores the body; listing takes no input.
func (f *JobsFeed) Validate(_ []byte) (any, error) {
	return nil, nil
}

func (f *JobsFeed) Credential() (proxy.Credential, error) {
	return proxy.RequireSecrets(
		"Server configuration error: Airtable token, base ID or table name is missing.",
		f.token, f.baseID, f.tableName,
	)
}

func (f *JobsFeed) Injector() proxy.Injector {
	return proxy.BearerToken{}
}

func (f *JobsFeed) UpstreamMessage(_ int) string {
	return "Failed to fetch jobs from Airtable."
}

func (f *JobsFeed) Build(_ context.Context, _ any) (*proxy.UpstreamRequest, error) {
	u, err := f.buildListURL()
	if err != nil {
		return nil, err
	}

	req := proxy.NewUpstreamRequest(http.MethodGet, u, nil)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// buildListURL returns <base>/v0/<baseId>/<table>?view=<view>[&filterByFormula=<f>]
// with the table name percent-encoded as a single path segment.
func (f *JobsFeed) buildListURL() (*url.URL, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("airtable: parse base url: %w", err)
	}

	basePath := strings.TrimSuffix(u.Path, "/")
	escapedBase := strings.TrimSuffix(u.EscapedPath(), "/")
	u.Path = basePath + "/v0/" + f.baseID + "/" + f.tableName
	u.RawPath = escapedBase + "/v0/" + url.PathEscape(f.baseID) + "/" + url.PathEscape(f.tableName)

	values := url.Values{}
	values.Set("view", f.view)
	if f.filterFormula != "" {
		values.Set("filterByFormula", f.filterFormula)
	}
	// Airtable examples use %20 rather than + for spaces
	u.RawQuery = strings.ReplaceAll(values.Encode(), "+", "%20")

	return u, nil
}

func (f *JobsFeed) Normalize(resp *proxy.UpstreamResponse) ([]byte, error) {
	var payload listResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("airtable: decode response: %w", err)
	}

	if payload.Offset != "" {
		f.logger.Warn("Airtable returned more pages than a single call fetches",
			slog.Int("records", len(payload.Records)),
		)
	}

	jobs := ProjectJobs(payload.Records)

	out, err := json.Marshal(jobs)
	if err != nil {
		return nil, fmt.Errorf("airtable: encode jobs: %w", err)
	}
	return out, nil
}

// ProjectJobs maps upstream records to JobRecords in upstream order,
// dropping records that have neither a title nor a location.
func ProjectJobs(records []Record) []JobRecord {
	jobs := make([]JobRecord, 0, len(records))
	for _, rec := range records {
		title, hasTitle := stringField(rec.Fields, fieldTitle)
		location, hasLocation := stringField(rec.Fields, fieldLocation)
		if !hasTitle && !hasLocation {
			continue
		}

		jobs = append(jobs, JobRecord{
			ID:        rec.ID,
			Title:     orDefault(title, hasTitle, DefaultTitle),
			Location:  orDefault(location, hasLocation, DefaultLocation),
			Salary:    fieldOr(rec.Fields, fieldSalary, DefaultSalary),
			ShortDesc: fieldOr(rec.Fields, fieldShortDesc, DefaultShortDesc),
			LongDesc:  fieldOr(rec.Fields, fieldLongDesc, DefaultLongDesc),
		})
	}
	return jobs
}

func fieldOr(fields map[string]any, name, fallback string) string {
	v, ok := stringField(fields, name)
	return orDefault(v, ok, fallback)
}

func orDefault(v string, ok bool, fallback string) string {
	if !ok {
		return fallback
	}
	return v
}

// stringField reads a cell as text. Only a missing cell, null or "" counts
// as absent. Lookup and linked-record cells arrive as arrays and are
// joined; collaborator-style objects use their name.
func stringField(fields map[string]any, name string) (string, bool) {
	text := cellText(fields[name])
	return text, text != ""
}

func cellText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if text := cellText(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if n, ok := v["name"].(string); ok {
			return n
		}
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}
