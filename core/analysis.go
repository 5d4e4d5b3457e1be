package core

import (
	"fmt"
	"math"
	"time"

	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// runTracker records one query run in the analysis store.
// A nil tracker, or one without a store, records nothing.
type runTracker struct {
	store contract.AnalysisStore
	id    int64
}

// beginRun opens a run when run history is enabled.
func beginRun(mgr contract.CacheManager, run schema.AnalysisRun) *runTracker {
	if mgr == nil {
		return nil
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return nil
	}
	id, err := store.BeginAnalysis(run)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return nil
	}
	if id <= 0 {
		return nil
	}
	return &runTracker{store: store, id: id}
}

// finish stores every result row and closes the run.
func (rt *runTracker) finish(records []schema.IndexRecord) {
	if rt == nil {
		return
	}
	for _, record := range records {
		record.AnalysisID = rt.id
		if err := rt.store.RecordIndex(rt.id, record); err != nil {
			contract.LogWarn("Analysis tracking failed for RecordIndex", err)
		}
	}
	if err := rt.store.EndAnalysis(rt.id, time.Now(), len(records)); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

// fileIndexRecords converts ranked file indices into stored rows.
func fileIndexRecords(files []schema.FileReusabilityIndex) []schema.IndexRecord {
	records := make([]schema.IndexRecord, len(files))
	for i, f := range files {
		path := f.FilePath
		records[i] = schema.IndexRecord{
			Position:      int32(i),
			CommitID:      f.CommitID,
			RevisionCount: storedRevisionCount(f.RevisionCount),
			FilePath:      &path,
			Index:         f.Index,
			Label:         contract.GetPlainLabel(f.Index),
		}
	}
	return records
}

// projectIndexRecords converts ranked project indices into stored rows.
func projectIndexRecords(projects []schema.ProjectReusabilityIndex) []schema.IndexRecord {
	records := make([]schema.IndexRecord, len(projects))
	for i, p := range projects {
		records[i] = schema.IndexRecord{
			Position:      int32(i),
			CommitID:      p.CommitID,
			RevisionCount: storedRevisionCount(p.RevisionCount),
			Index:         p.Index,
			Label:         contract.GetPlainLabel(p.Index),
		}
	}
	return records
}

// storedRevisionCount fits a revision count into the 32-bit history column,
// clamping out-of-range values.
func storedRevisionCount(n int) int32 {
	switch {
	case n > math.MaxInt32:
		contract.LogWarn("Revision count clamped for run history", fmt.Errorf("%d exceeds %d", n, math.MaxInt32))
		return math.MaxInt32
	case n < math.MinInt32:
		contract.LogWarn("Revision count clamped for run history", fmt.Errorf("%d is below %d", n, math.MinInt32))
		return math.MinInt32
	}
	return int32(n)
}

// runParams captures the query options stored with a run.
func runParams(cfg *contract.Config) map[string]any {
	params := map[string]any{
		"metrics_url":  cfg.MetricsURL,
		"result_limit": cfg.ResultLimit,
		"strict":       cfg.Strict,
	}
	if cfg.FilePath != "" {
		params["file_path"] = cfg.FilePath
	}
	return params
}
