package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/reusabilityapi/reusability/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals restores the global manager between tests.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(func() {
		CloseStores()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &CacheStoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("both stores", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		analysisPath := filepath.Join(dir, "analysis.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, analysisPath))
		assert.NotNil(t, Manager.GetResponseStore())
		assert.NotNil(t, Manager.GetAnalysisStore())

		_, err := os.Stat(cachePath)
		assert.NoError(t, err)
		_, err = os.Stat(analysisPath)
		assert.NoError(t, err)
	})

	t.Run("analysis disabled", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", "", ""))
		assert.NotNil(t, Manager.GetResponseStore())
		assert.Nil(t, Manager.GetAnalysisStore())
	})

	t.Run("idempotent", func(t *testing.T) {
		resetGlobals(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")
		assert.NoError(t, InitStores(schema.SQLiteBackend, cachePath, "", ""))
		first := Manager.GetResponseStore()
		assert.NoError(t, InitStores(schema.SQLiteBackend, cachePath, "", ""))
		assert.Same(t, first, Manager.GetResponseStore())

		CloseStores()
		CloseStores()
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.DatabaseBackend("redis"), "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize response cache")
		assert.Nil(t, Manager.GetResponseStore())
	})
}

func TestNewManager(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(schema.SQLiteBackend, filepath.Join(dir, "c.db"), schema.SQLiteBackend, filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.NotNil(t, mgr.GetResponseStore())
	assert.NotNil(t, mgr.GetAnalysisStore())
	assert.NoError(t, mgr.Close())

	_, err = NewManager(schema.NoneBackend, "", schema.DatabaseBackend("redis"), "")
	assert.Error(t, err)
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(responseTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		// Clearing again is not an error
		assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
		assert.NoError(t, ClearAnalysis("", "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearAnalysis(schema.DatabaseBackend("redis"), "", ""))
	})
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	ts := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend: "sqlite", Connected: true, TotalEntries: 2,
		LastEntryTime: ts, OldestEntryTime: ts, TableSizeBytes: 4096,
	})
	assert.Contains(t, buf.String(), "Total Entries: 2")
	assert.Contains(t, buf.String(), "Last Entry: 2026-04-01 08:30:00")
	assert.Contains(t, buf.String(), "Table Size: 4096 bytes")

	buf.Reset()
	PrintAnalysisStatus(&buf, schema.AnalysisStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 1, LastRunID: 7, TotalIndices: 12,
		TableSizes: map[string]int64{indexRecordsTable: 12, analysisRunsTable: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: 7")
	assert.Contains(t, out, "Total Indices Recorded: 12")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(analysisRunsTable)), bytes.Index(buf.Bytes(), []byte(indexRecordsTable)),
		"tables should be listed in name order")
}

func TestExportAnalysis(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAnalysisStore(schema.SQLiteBackend, filepath.Join(dir, "analysis.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	var out bytes.Buffer
	err = ExportAnalysis(&out, store, filepath.Join(dir, "export"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no analysis data")

	start := time.Now()
	id, err := store.BeginAnalysis(schema.AnalysisRun{Kind: schema.ProjectByCommitQuery, RepoURL: "r", CommitSHA: "c", StartTime: start})
	require.NoError(t, err)
	require.NoError(t, store.RecordIndex(id, schema.IndexRecord{CommitID: "c", RevisionCount: 1, Index: -2, Label: "Moderate"}))
	require.NoError(t, store.EndAnalysis(id, start.Add(time.Millisecond), 1))

	base := filepath.Join(dir, "export")
	require.NoError(t, ExportAnalysis(&out, store, base))
	assert.Contains(t, out.String(), "Exported 1 analysis runs")
	assert.Contains(t, out.String(), "Exported 1 index records")

	for _, suffix := range []string{".analysis_runs.parquet", ".index_records.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestExportAnalysis_Validation(t *testing.T) {
	assert.ErrorContains(t, ExportAnalysis(&bytes.Buffer{}, nil, "out"), "not enabled")
	assert.ErrorContains(t, ExportAnalysis(&bytes.Buffer{}, &MockAnalysisStore{}, ""), "--output-file")
}
