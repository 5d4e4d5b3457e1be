package contract

import (
	"context"

	"github.com/reusabilityapi/reusability/schema"
	"github.com/stretchr/testify/mock"
)

// MockMetricsClient is a mock implementation of MetricsClient for testing.
type MockMetricsClient struct {
	mock.Mock
}

var _ MetricsClient = &MockMetricsClient{} // Compile-time check

// MetricsByCommit implements the MetricsClient interface.
func (m *MockMetricsClient) MetricsByCommit(ctx context.Context, repoURL, sha string, limit int) ([]schema.MetricsRecord, error) {
	args := m.Called(ctx, repoURL, sha, limit)
	records, _ := args.Get(0).([]schema.MetricsRecord)
	return records, args.Error(1)
}

// MetricsByCommitAndFile implements the MetricsClient interface.
func (m *MockMetricsClient) MetricsByCommitAndFile(ctx context.Context, repoURL, sha, filePath string) ([]schema.MetricsRecord, error) {
	args := m.Called(ctx, repoURL, sha, filePath)
	records, _ := args.Get(0).([]schema.MetricsRecord)
	return records, args.Error(1)
}

// ProjectMetrics implements the MetricsClient interface.
func (m *MockMetricsClient) ProjectMetrics(ctx context.Context, repoURL string, limit int) ([]schema.MetricsRecord, error) {
	args := m.Called(ctx, repoURL, limit)
	records, _ := args.Get(0).([]schema.MetricsRecord)
	return records, args.Error(1)
}
