package metricsclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `[
  {"sha":"c1","revisionCount":4,"filePath":"src/A.java","cbo":9,"dit":1,"wmc":10,"rfc":20,"lcom":50,"nocc":0},
  {"sha":"c1","revisionCount":2,"filePath":"src/B.java","cbo":0,"dit":0,"wmc":0,"rfc":0,"lcom":0,"nocc":0}
]`

// newProvider starts a fake provider that records the last request URL and answers with body.
func newProvider(t *testing.T, status int, body string) (*httptest.Server, *url.URL) {
	t.Helper()
	last := &url.URL{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*last = *r.URL
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func TestMetricsByCommit(t *testing.T) {
	srv, last := newProvider(t, http.StatusOK, sampleBody)
	client := New(srv.URL, 5*time.Second)

	records, err := client.MetricsByCommit(context.Background(), "https://github.com/acme/app?x=1&y=2", "c1", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, byCommitPath, last.Path)
	assert.Equal(t, "https://github.com/acme/app?x=1&y=2", last.Query().Get("url"), "query values are encoded")
	assert.Equal(t, "c1", last.Query().Get("sha"))
	assert.False(t, last.Query().Has("limit"), "no limit parameter when limit <= 0")

	assert.Equal(t, schema.MetricsRecord{
		Sha: "c1", RevisionCount: 4, FilePath: "src/A.java",
		CBO: 9, DIT: 1, WMC: 10, RFC: 20, LCOM: 50, NOCC: 0,
	}, records[0])
}

func TestMetricsByCommit_Limit(t *testing.T) {
	srv, last := newProvider(t, http.StatusOK, "[]")
	client := New(srv.URL+"/", time.Second)

	records, err := client.MetricsByCommit(context.Background(), "repo", "c1", 25)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.Equal(t, "25", last.Query().Get("limit"))
	assert.Equal(t, byCommitPath, last.Path, "trailing slash on base URL is ignored")
}

func TestMetricsByCommitAndFile(t *testing.T) {
	srv, last := newProvider(t, http.StatusOK, sampleBody)
	client := New(srv.URL, time.Second)

	_, err := client.MetricsByCommitAndFile(context.Background(), "repo", "c1", "src/My File.java")
	require.NoError(t, err)
	assert.Equal(t, byCommitAndFilePath, last.Path)
	assert.Equal(t, "src/My File.java", last.Query().Get("filePath"))
}

func TestProjectMetrics(t *testing.T) {
	body := `[{"sha":"c1","revisionCount":1,"cbo":1,"dit":1,"wmc":1,"rfc":1,"lcom":1,"nocc":1}]`
	srv, last := newProvider(t, http.StatusOK, body)
	client := New(srv.URL, time.Second)

	records, err := client.ProjectMetrics(context.Background(), "repo", 3)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, projectPath, last.Path)
	assert.Equal(t, "3", last.Query().Get("limit"))
	assert.False(t, last.Query().Has("sha"))
	assert.Empty(t, records[0].FilePath)
}

func TestFetch_StatusError(t *testing.T) {
	srv, _ := newProvider(t, http.StatusInternalServerError, "boom")
	client := New(srv.URL, time.Second)

	_, err := client.ProjectMetrics(context.Background(), "repo", 0)
	require.Error(t, err)

	var te *contract.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(base, time.Second).MetricsByCommit(context.Background(), "repo", "c1", 0)
	var te *contract.TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
}

func TestFetch_Canceled(t *testing.T) {
	srv, _ := newProvider(t, http.StatusOK, "[]")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, time.Second).MetricsByCommit(ctx, "repo", "c1", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		malformed bool
		count     int
	}{
		{"empty array", "[]", false, 0},
		{"two records", sampleBody, false, 2},
		{"empty body", "", true, 0},
		{"whitespace body", "  \n", true, 0},
		{"null body", "null", true, 0},
		{"object instead of array", `{"sha":"c1"}`, true, 0},
		{"truncated json", `[{"sha":"c1"`, true, 0},
		{"null record", `[null]`, true, 0},
		{"missing metric", `[{"sha":"c1","cbo":1,"dit":1,"wmc":1,"rfc":1,"lcom":1}]`, true, 0},
		{"null metric", `[{"cbo":1,"dit":1,"wmc":null,"rfc":1,"lcom":1,"nocc":1}]`, true, 0},
		{"optional fields absent", `[{"cbo":1,"dit":1,"wmc":1,"rfc":1,"lcom":1,"nocc":1}]`, false, 1},
		{"fractional metrics", `[{"cbo":1.5,"dit":1,"wmc":2.25,"rfc":1,"lcom":0.5,"nocc":0}]`, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeRecords("test", []byte(tt.body))
			if tt.malformed {
				var me *contract.MalformedResponseError
				require.True(t, errors.As(err, &me), "expected malformed error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.count)
		})
	}
}

func TestRequestURL(t *testing.T) {
	q := url.Values{}
	q.Set("url", "a b")
	assert.Equal(t, "http://host/api/x?url=a+b", RequestURL("http://host/", "/api/x", q))
}
