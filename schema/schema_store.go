package schema

import "time"

// AnalysisRunRecord represents a row from the reusability_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID    int64
	QueryKind     string
	RepoURL       string
	CommitSHA     *string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalIndices  int32
	ConfigParams  *string
}

// IndexRecord represents a row from the reusability_index_records table.
// Position keeps the order the aggregation returned the rows in.
type IndexRecord struct {
	AnalysisID    int64
	Position      int32
	CommitID      string
	RevisionCount int32
	FilePath      *string
	Index         float64
	Label         string
}

// AnalysisRun describes a query run before it is persisted.
type AnalysisRun struct {
	Kind      QueryKind
	RepoURL   string
	CommitSHA string
	StartTime time.Time
	Params    map[string]any
}
