// Package parquet provides data structures and functions for exporting reusability
// results and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// AnalysisRun represents a single query run with metadata.
// This struct maps to the reusability_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// QueryKind names the aggregation that produced the run
	QueryKind string `parquet:"query_kind,snappy,dict"`

	// RepoURL is the repository the run was computed for
	RepoURL string `parquet:"repo_url,snappy,dict"`

	// CommitSHA is the requested commit (nullable for project history runs)
	CommitSHA *string `parquet:"commit_sha,optional,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalIndices is the number of index rows the run produced
	TotalIndices int32 `parquet:"total_indices,snappy"`

	// ConfigParams contains the JSON-encoded query parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// IndexRecord is one result row of a run.
// This struct maps to the reusability_index_records database table.
type IndexRecord struct {
	AnalysisID    int64   `parquet:"analysis_id,snappy"`
	Position      int32   `parquet:"position,snappy"`
	CommitID      string  `parquet:"commit_id,snappy,dict"`
	RevisionCount int32   `parquet:"revision_count,snappy"`
	FilePath      *string `parquet:"file_path,optional,snappy"`
	Index         float64 `parquet:"reusability_index,snappy"`
	Label         string  `parquet:"index_label,snappy,dict"`
}

// FileIndex is a ranked file-level result for `--output parquet`.
type FileIndex struct {
	Rank          int32   `parquet:"rank,snappy"`
	CommitID      string  `parquet:"commit_id,snappy,dict"`
	RevisionCount int64   `parquet:"revision_count,snappy"`
	FilePath      string  `parquet:"file_path,snappy"`
	Index         float64 `parquet:"reusability_index,snappy"`
	Label         string  `parquet:"index_label,snappy,dict"`
}

// ProjectIndex is a ranked project-level result for `--output parquet`.
type ProjectIndex struct {
	Rank          int32   `parquet:"rank,snappy"`
	CommitID      string  `parquet:"commit_id,snappy"`
	RevisionCount int64   `parquet:"revision_count,snappy"`
	Index         float64 `parquet:"reusability_index,snappy"`
	Label         string  `parquet:"index_label,snappy,dict"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteIndexRecordsParquet writes a slice of IndexRecord structs to a Parquet file.
func WriteIndexRecordsParquet(data []IndexRecord, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteFileIndices writes file-level results to w.
func WriteFileIndices(w io.Writer, data []FileIndex) error {
	return write(w, data)
}

// WriteProjectIndices writes project-level results to w.
func WriteProjectIndices(w io.Writer, data []ProjectIndex) error {
	return write(w, data)
}

// writeFile creates outputPath and writes data to it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// write encodes data with a schema inferred from the struct tags of T.
func write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:    record.AnalysisID,
			QueryKind:     record.QueryKind,
			RepoURL:       record.RepoURL,
			CommitSHA:     record.CommitSHA,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalIndices:  record.TotalIndices,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertIndexRecords converts schema.IndexRecord to IndexRecord for Parquet export.
func ConvertIndexRecords(records []schema.IndexRecord) []IndexRecord {
	result := make([]IndexRecord, len(records))
	for i, record := range records {
		result[i] = IndexRecord(record)
	}
	return result
}

// ConvertFileIndices ranks file-level results in their given order.
func ConvertFileIndices(results []schema.FileReusabilityIndex) []FileIndex {
	out := make([]FileIndex, len(results))
	for i, r := range results {
		out[i] = FileIndex{
			Rank:          int32(i + 1),
			CommitID:      r.CommitID,
			RevisionCount: int64(r.RevisionCount),
			FilePath:      r.FilePath,
			Index:         r.Index,
			Label:         contract.GetPlainLabel(r.Index),
		}
	}
	return out
}

// ConvertProjectIndices ranks project-level results in their given order.
func ConvertProjectIndices(results []schema.ProjectReusabilityIndex) []ProjectIndex {
	out := make([]ProjectIndex, len(results))
	for i, r := range results {
		out[i] = ProjectIndex{
			Rank:          int32(i + 1),
			CommitID:      r.CommitID,
			RevisionCount: int64(r.RevisionCount),
			Index:         r.Index,
			Label:         contract.GetPlainLabel(r.Index),
		}
	}
	return out
}
