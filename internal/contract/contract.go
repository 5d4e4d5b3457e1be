// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/reusabilityapi/reusability/schema"
)

// MetricsClient defines the read-only queries served by the upstream metrics provider.
// This allows the aggregation logic to be tested without a running provider.
// A limit of zero or less means the provider applies no limit.
type MetricsClient interface {
	// MetricsByCommit returns the file-level metric records of one commit.
	MetricsByCommit(ctx context.Context, repoURL, sha string, limit int) ([]schema.MetricsRecord, error)

	// MetricsByCommitAndFile returns the metric records of one file at one commit.
	MetricsByCommitAndFile(ctx context.Context, repoURL, sha, filePath string) ([]schema.MetricsRecord, error)

	// ProjectMetrics returns one commit-level metric record per commit of the project.
	ProjectMetrics(ctx context.Context, repoURL string, limit int) ([]schema.MetricsRecord, error)
}

// CacheManager defines the interface for managing the stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cached provider responses.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking query runs and their results.
type AnalysisStore interface {
	// BeginAnalysis creates a new run and returns its unique ID
	BeginAnalysis(run schema.AnalysisRun) (int64, error)

	// EndAnalysis updates the run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalIndices int) error

	// RecordIndex stores one result row of a run
	RecordIndex(analysisID int64, record schema.IndexRecord) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every run ordered by ID
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllIndexRecords returns every stored result row ordered by run and position
	GetAllIndexRecords() ([]schema.IndexRecord, error)

	// Close closes the underlying connection
	Close() error
}
