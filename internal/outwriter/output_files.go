package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/reusabilityapi/reusability/core/algo"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/internal/parquet"
	"github.com/reusabilityapi/reusability/schema"
)

// fileOrdinal names the position column of file output.
type fileOrdinal struct {
	header string // table header
	field  string // CSV column and JSON key
}

var (
	rankOrdinal = fileOrdinal{header: "Rank", field: "rank"}
	rowOrdinal  = fileOrdinal{header: "#", field: "row"}
)

// WriteFileResults outputs ranked file-level indices, dispatching based on the output format configured.
func WriteFileResults(files []schema.FileReusabilityIndex, cfg *contract.Config, duration time.Duration) error {
	return writeFileResults(files, cfg, duration, rankOrdinal)
}

// WriteFileRows outputs file-level indices that keep the provider's order,
// numbering rows instead of ranking them.
func WriteFileRows(files []schema.FileReusabilityIndex, cfg *contract.Config, duration time.Duration) error {
	return writeFileResults(files, cfg, duration, rowOrdinal)
}

func writeFileResults(files []schema.FileReusabilityIndex, cfg *contract.Config, duration time.Duration, ord fileOrdinal) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForFiles(w, files, ord)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForFiles(w, files, ord, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteFileIndices(w, parquet.ConvertFileIndices(files))
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeFileTable(w, files, ord, GetMaxTablePathWidth(cfg), fmtFloat, intFmt); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
}

// writeFileTable generates and writes the human-readable table.
func writeFileTable(w io.Writer, files []schema.FileReusabilityIndex, ord fileOrdinal, pathWidth int, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{ord.header, "Path", "Commit", "Revisions", "Index", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(files))
	for i, f := range files {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.FilePath, pathWidth),
			contract.ShortSHA(f.CommitID),
			fmt.Sprintf(intFmt, f.RevisionCount),
			fmtFloat(f.Index),
			contract.GetColorLabel(f.Index),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if len(files) == 0 {
		_, err := fmt.Fprintln(w, "No files found")
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d files (mean index: %s)\n", len(files), fmtFloat(algo.MeanIndex(files)))
	return err
}

// writeCSVResultsForFiles writes file-level indices in CSV format.
func writeCSVResultsForFiles(w io.Writer, files []schema.FileReusabilityIndex, ord fileOrdinal, fmtFloat func(float64) string, intFmt string) error {
	header := []string{ord.field, "commit_id", "revision_count", "file_path", "index", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, f := range files {
			rec := []string{
				strconv.Itoa(i + 1),
				f.CommitID,
				fmt.Sprintf(intFmt, f.RevisionCount),
				f.FilePath,
				fmtFloat(f.Index),
				contract.GetPlainLabel(f.Index),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// jsonFileResult adds rank and label to a file index.
type jsonFileResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	schema.FileReusabilityIndex
}

// jsonFileRow adds a row number and label to a file index.
type jsonFileRow struct {
	Row   int    `json:"row"`
	Label string `json:"label"`
	schema.FileReusabilityIndex
}

// writeJSONResultsForFiles writes file-level indices in JSON format.
func writeJSONResultsForFiles(w io.Writer, files []schema.FileReusabilityIndex, ord fileOrdinal) error {
	if ord == rowOrdinal {
		return writeJSON(w, numberFiles(files))
	}
	return writeJSON(w, rankFiles(files))
}

func numberFiles(files []schema.FileReusabilityIndex) []jsonFileRow {
	output := make([]jsonFileRow, len(files))
	for i, f := range files {
		output[i] = jsonFileRow{
			Row:                  i + 1,
			Label:                contract.GetPlainLabel(f.Index),
			FileReusabilityIndex: f,
		}
	}
	return output
}

func rankFiles(files []schema.FileReusabilityIndex) []jsonFileResult {
	output := make([]jsonFileResult, len(files))
	for i, f := range files {
		output[i] = jsonFileResult{
			Rank:                 i + 1,
			Label:                contract.GetPlainLabel(f.Index),
			FileReusabilityIndex: f,
		}
	}
	return output
}

// writeFooter prints timing and cache information below a table.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Query completed in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}
