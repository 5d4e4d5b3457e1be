package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/internal/parquet"
	"github.com/reusabilityapi/reusability/schema"
)

// WriteReportResults outputs a commit report, dispatching based on the output format configured.
// Parquet output holds the file rows only.
func WriteReportResults(report schema.CommitReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONReport(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, report, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteFileIndices(w, parquet.ConvertFileIndices(report.Files))
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeReportSummary(w, report, fmtFloat); err != nil {
				return err
			}
			if err := writeFileTable(w, report.Files, rankOrdinal, GetMaxTablePathWidth(cfg), fmtFloat, intFmt); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
}

// writeReportSummary prints the project-level headline of a report.
func writeReportSummary(w io.Writer, report schema.CommitReport, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "Repository: %s\nCommit: %s\n", report.RepoURL, report.CommitSHA); err != nil {
		return err
	}
	if len(report.Project) == 0 {
		_, err := fmt.Fprintln(w, "Project index: n/a")
		return err
	}
	p := report.Project[0]
	_, err := fmt.Fprintf(w, "Project index: %s (%s, %d revisions)\n", fmtFloat(p.Index), contract.GetColorLabel(p.Index), p.RevisionCount)
	return err
}

// writeJSONReport writes the report with ranked and labeled rows.
func writeJSONReport(w io.Writer, report schema.CommitReport) error {
	return writeJSON(w, struct {
		RepoURL   string              `json:"repoUrl"`
		CommitSHA string              `json:"commitSha"`
		Project   []jsonProjectResult `json:"project"`
		Files     []jsonFileResult    `json:"files"`
	}{
		RepoURL:   report.RepoURL,
		CommitSHA: report.CommitSHA,
		Project:   rankProjects(report.Project),
		Files:     rankFiles(report.Files),
	})
}

// writeCSVReport writes one row per file with the project index repeated on each row.
func writeCSVReport(w io.Writer, report schema.CommitReport, fmtFloat func(float64) string, intFmt string) error {
	projectIndex := ""
	if len(report.Project) > 0 {
		projectIndex = fmtFloat(report.Project[0].Index)
	}
	header := []string{"rank", "commit_id", "revision_count", "file_path", "index", "label", "project_index"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, f := range report.Files {
			rec := []string{
				strconv.Itoa(i + 1),
				f.CommitID,
				fmt.Sprintf(intFmt, f.RevisionCount),
				f.FilePath,
				fmtFloat(f.Index),
				contract.GetPlainLabel(f.Index),
				projectIndex,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
