package agg

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/internal/iocache"
	"github.com/reusabilityapi/reusability/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCacheStore for testing (alias for iocache.MockCacheStore)
type MockCacheStore = iocache.MockCacheStore

var cachedRecords = []schema.MetricsRecord{
	{Sha: "abc", RevisionCount: 2, FilePath: "A.java", CBO: 3, DIT: 1, WMC: 4, RFC: 5, LCOM: 6, NOCC: 0},
}

func TestCheckCacheHit_CacheHit(t *testing.T) {
	mockStore := &MockCacheStore{}
	data, _ := json.Marshal(cachedRecords)
	now := time.Now()
	mockStore.On("Get", "test-key").Return(data, currentCacheVersion, now.Unix(), nil)

	actual := checkCacheHit(mockStore, "test-key", time.Hour, now)
	assert.Equal(t, cachedRecords, actual)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss(t *testing.T) {
	now := time.Now()
	data, _ := json.Marshal(cachedRecords)

	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
	}{
		{"version mismatch", data, currentCacheVersion + 1, now.Unix(), nil},
		{"stale", data, currentCacheVersion, now.Add(-2 * time.Hour).Unix(), nil},
		{"store error", nil, 0, 0, sql.ErrNoRows},
		{"invalid json", []byte("invalid json"), currentCacheVersion, now.Unix(), nil},
		{"null body", []byte("null"), currentCacheVersion, now.Unix(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockCacheStore{}
			mockStore.On("Get", "test-key").Return(tt.data, tt.version, tt.ts, tt.err)

			assert.Nil(t, checkCacheHit(mockStore, "test-key", time.Hour, now))
			mockStore.AssertExpectations(t)
		})
	}
}

func TestCheckCacheHit_NilStore(t *testing.T) {
	assert.Nil(t, checkCacheHit(nil, "k", time.Hour, time.Now()))
}

func TestCachingClient_MemoizesSuccess(t *testing.T) {
	inner := &contract.MockMetricsClient{}
	inner.On("MetricsByCommit", mock.Anything, "repo", "abc", 5).Return(slices.Clone(cachedRecords), nil).Once()

	c := NewCachingClient(inner, nil, time.Hour, nil)
	ctx := context.Background()

	first, err := c.MetricsByCommit(ctx, "repo", "abc", 5)
	require.NoError(t, err)
	first[0].CBO = 99 // callers get their own copy

	second, err := c.MetricsByCommit(ctx, "repo", "abc", 5)
	require.NoError(t, err)
	assert.Equal(t, cachedRecords, second)
	inner.AssertExpectations(t)
}

func TestCachingClient_DoesNotCacheFailures(t *testing.T) {
	inner := &contract.MockMetricsClient{}
	failure := &contract.TransportError{URL: "u", StatusCode: 503}
	inner.On("ProjectMetrics", mock.Anything, "repo", 0).Return(nil, failure).Once()
	inner.On("ProjectMetrics", mock.Anything, "repo", 0).Return(cachedRecords, nil).Once()

	store := &MockCacheStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), sql.ErrNoRows)
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil).Once()

	c := NewCachingClient(inner, store, time.Hour, NewMemo(4))
	ctx := context.Background()

	_, err := c.ProjectMetrics(ctx, "repo", 0)
	assert.ErrorIs(t, err, failure)

	got, err := c.ProjectMetrics(ctx, "repo", 0)
	require.NoError(t, err)
	assert.Equal(t, cachedRecords, got)
	inner.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCachingClient_MemoExpires(t *testing.T) {
	inner := &contract.MockMetricsClient{}
	inner.On("MetricsByCommitAndFile", mock.Anything, "repo", "abc", "A.java").Return(cachedRecords, nil).Twice()

	c := NewCachingClient(inner, nil, time.Minute, NewMemo(4))
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := c.MetricsByCommitAndFile(ctx, "repo", "abc", "A.java")
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = c.MetricsByCommitAndFile(ctx, "repo", "abc", "A.java")
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = c.MetricsByCommitAndFile(ctx, "repo", "abc", "A.java")
	require.NoError(t, err)

	inner.AssertExpectations(t)
}

func TestCachingClient_PersistentStore(t *testing.T) {
	store, err := iocache.NewCacheStore("response_cache", schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	inner := &contract.MockMetricsClient{}
	inner.On("MetricsByCommit", mock.Anything, "repo", "abc", 0).Return(cachedRecords, nil).Once()
	ctx := context.Background()

	_, err = NewCachingClient(inner, store, time.Hour, nil).MetricsByCommit(ctx, "repo", "abc", 0)
	require.NoError(t, err)

	// A client with a fresh memo must be served by the store
	got, err := NewCachingClient(inner, store, time.Hour, nil).MetricsByCommit(ctx, "repo", "abc", -3)
	require.NoError(t, err)
	assert.Equal(t, cachedRecords, got)
	inner.AssertExpectations(t)
}

func TestCachingClient_SharedMemoOutlivesClient(t *testing.T) {
	inner := &contract.MockMetricsClient{}
	inner.On("MetricsByCommit", mock.Anything, "repo", "abc", 0).Return(cachedRecords, nil).Once()

	store := &MockCacheStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), sql.ErrNoRows)
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil).Once()

	memo := NewMemo(4)
	ctx := context.Background()
	for range 3 {
		got, err := NewCachingClient(inner, store, time.Hour, memo).MetricsByCommit(ctx, "repo", "abc", 0)
		require.NoError(t, err)
		assert.Equal(t, cachedRecords, got)
	}

	assert.Equal(t, 1, memo.Len())
	inner.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "Get", 1)
}

func TestNewMemo_DefaultSize(t *testing.T) {
	memo := NewMemo(0)
	assert.Equal(t, 0, memo.Len())
	assert.NotNil(t, memo.entries)
}

func TestGenerateCacheKey(t *testing.T) {
	k1 := generateCacheKey("byCommit", "ab", "c")
	k2 := generateCacheKey("byCommit", "a", "bc")
	k3 := generateCacheKey("project", "ab", "c")

	assert.Len(t, k1, 64)
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Equal(t, k1, generateCacheKey("byCommit", "ab", "c"))
}
