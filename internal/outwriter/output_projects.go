package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/internal/parquet"
	"github.com/reusabilityapi/reusability/schema"
)

// WriteProjectResults outputs project-level indices, dispatching based on the output format configured.
func WriteProjectResults(projects []schema.ProjectReusabilityIndex, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rankProjects(projects))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForProjects(w, projects, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteProjectIndices(w, parquet.ConvertProjectIndices(projects))
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeProjectTable(w, projects, fmtFloat, intFmt); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
}

// writeProjectTable generates and writes the human-readable table.
func writeProjectTable(w io.Writer, projects []schema.ProjectReusabilityIndex, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Commit", "Revisions", "Index", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(projects))
	for i, p := range projects {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.ShortSHA(p.CommitID),
			fmt.Sprintf(intFmt, p.RevisionCount),
			fmtFloat(p.Index),
			contract.GetColorLabel(p.Index),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "No commits found")
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d commits\n", len(projects))
	return err
}

// writeCSVResultsForProjects writes project-level indices in CSV format.
func writeCSVResultsForProjects(w io.Writer, projects []schema.ProjectReusabilityIndex, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "commit_id", "revision_count", "index", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, p := range projects {
			rec := []string{
				strconv.Itoa(i + 1),
				p.CommitID,
				fmt.Sprintf(intFmt, p.RevisionCount),
				fmtFloat(p.Index),
				contract.GetPlainLabel(p.Index),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// jsonProjectResult adds rank and label to a project index.
type jsonProjectResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	schema.ProjectReusabilityIndex
}

func rankProjects(projects []schema.ProjectReusabilityIndex) []jsonProjectResult {
	output := make([]jsonProjectResult, len(projects))
	for i, p := range projects {
		output[i] = jsonProjectResult{
			Rank:                    i + 1,
			Label:                   contract.GetPlainLabel(p.Index),
			ProjectReusabilityIndex: p,
		}
	}
	return output
}
