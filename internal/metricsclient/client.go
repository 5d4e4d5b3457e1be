// Package metricsclient fetches object-oriented design metrics from the upstream metrics provider.
package metricsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// Provider endpoints, relative to the base URL.
const (
	byCommitPath        = "/api/reusabilityMetricsByCommit"
	byCommitAndFilePath = "/api/reusabilityMetricsByCommitAndFile"
	projectPath         = "/api/reusabilityMetrics"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 64 << 20

// Client talks to the metrics provider over HTTP.
// It builds the HTTP client once and reuses it across calls.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ contract.MetricsClient = &Client{} // Compile-time check

// New returns a Client for the provider at baseURL. A zero timeout disables the client timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient returns a Client that sends requests through httpClient.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// MetricsByCommit implements the MetricsClient interface.
func (c *Client) MetricsByCommit(ctx context.Context, repoURL, sha string, limit int) ([]schema.MetricsRecord, error) {
	q := url.Values{}
	q.Set("url", repoURL)
	q.Set("sha", sha)
	setLimit(q, limit)
	return c.fetch(ctx, byCommitPath, q)
}

// MetricsByCommitAndFile implements the MetricsClient interface.
func (c *Client) MetricsByCommitAndFile(ctx context.Context, repoURL, sha, filePath string) ([]schema.MetricsRecord, error) {
	q := url.Values{}
	q.Set("url", repoURL)
	q.Set("sha", sha)
	q.Set("filePath", filePath)
	return c.fetch(ctx, byCommitAndFilePath, q)
}

// ProjectMetrics implements the MetricsClient interface.
func (c *Client) ProjectMetrics(ctx context.Context, repoURL string, limit int) ([]schema.MetricsRecord, error) {
	q := url.Values{}
	q.Set("url", repoURL)
	setLimit(q, limit)
	return c.fetch(ctx, projectPath, q)
}

// setLimit adds the limit parameter only when a positive limit was requested.
func setLimit(q url.Values, limit int) {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
}

// RequestURL builds the full provider URL for an endpoint path and query.
func RequestURL(baseURL, path string, q url.Values) string {
	return strings.TrimRight(baseURL, "/") + path + "?" + q.Encode()
}

// fetch performs one GET against the provider and decodes the record array.
func (c *Client) fetch(ctx context.Context, path string, q url.Values) ([]schema.MetricsRecord, error) {
	target := RequestURL(c.baseURL, path, q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &contract.TransportError{URL: target, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &contract.TransportError{URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &contract.TransportError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &contract.TransportError{URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	return DecodeRecords(target, body)
}

// wireRecord mirrors one provider record; pointers tell absent fields from zero values.
type wireRecord struct {
	Sha           *string  `json:"sha"`
	RevisionCount *int     `json:"revisionCount"`
	FilePath      *string  `json:"filePath"`
	CBO           *float64 `json:"cbo"`
	DIT           *float64 `json:"dit"`
	WMC           *float64 `json:"wmc"`
	RFC           *float64 `json:"rfc"`
	LCOM          *float64 `json:"lcom"`
	NOCC          *float64 `json:"nocc"`
}

// DecodeRecords parses a provider response body into metric records.
// An empty or null body, a non-array document, or a record missing any of the
// six metrics yields a *contract.MalformedResponseError.
func DecodeRecords(source string, body []byte) ([]schema.MetricsRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &contract.MalformedResponseError{URL: source, Reason: "empty response body"}
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, &contract.MalformedResponseError{URL: source, Reason: "null response body"}
	}

	var wire []*wireRecord
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, &contract.MalformedResponseError{URL: source, Reason: "invalid JSON array", Err: err}
	}

	records := make([]schema.MetricsRecord, 0, len(wire))
	for i, w := range wire {
		if w == nil {
			return nil, &contract.MalformedResponseError{URL: source, Reason: fmt.Sprintf("record %d is null", i)}
		}
		record, err := w.toRecord()
		if err != nil {
			return nil, &contract.MalformedResponseError{URL: source, Reason: fmt.Sprintf("record %d", i), Err: err}
		}
		records = append(records, record)
	}
	return records, nil
}

// toRecord validates the required metrics and fills in optional fields.
func (w *wireRecord) toRecord() (schema.MetricsRecord, error) {
	metrics := []struct {
		name  string
		value *float64
	}{
		{schema.MetricCBO, w.CBO},
		{schema.MetricDIT, w.DIT},
		{schema.MetricWMC, w.WMC},
		{schema.MetricRFC, w.RFC},
		{schema.MetricLCOM, w.LCOM},
		{schema.MetricNOCC, w.NOCC},
	}
	for _, m := range metrics {
		if m.value == nil {
			return schema.MetricsRecord{}, fmt.Errorf("missing metric %q", m.name)
		}
	}

	record := schema.MetricsRecord{
		CBO:  *w.CBO,
		DIT:  *w.DIT,
		WMC:  *w.WMC,
		RFC:  *w.RFC,
		LCOM: *w.LCOM,
		NOCC: *w.NOCC,
	}
	if w.Sha != nil {
		record.Sha = *w.Sha
	}
	if w.RevisionCount != nil {
		record.RevisionCount = *w.RevisionCount
	}
	if w.FilePath != nil {
		record.FilePath = *w.FilePath
	}
	return record, nil
}
