package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// WriteFormulaTerms outputs the reusability formula, dispatching based on the output format configured.
func WriteFormulaTerms(terms []schema.FormulaTerm, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, terms)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVFormula(w, terms)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for the formula")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFormulaTable(w, terms)
		}, "Wrote table")
	}
}

// formatFormula renders the terms as a single expression, e.g. -(8.753*log10(CBO+1) + ...).
func formatFormula(terms []schema.FormulaTerm) string {
	var sb strings.Builder
	sb.WriteString("index = -(")
	for i, term := range terms {
		weight := term.Weight
		switch {
		case i == 0 && weight < 0:
			sb.WriteString("-")
			weight = -weight
		case i > 0 && weight < 0:
			sb.WriteString(" - ")
			weight = -weight
		case i > 0:
			sb.WriteString(" + ")
		}
		_, _ = fmt.Fprintf(&sb, "%.3f*log10(%s+1)", weight, strings.ToUpper(term.Metric))
	}
	sb.WriteString(")")
	return sb.String()
}

// writeFormulaTable prints the expression followed by one row per term.
func writeFormulaTable(w io.Writer, terms []schema.FormulaTerm) error {
	if _, err := fmt.Fprintln(w, formatFormula(terms)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Description", "Weight"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignRight}
	})
	data := make([][]string, 0, len(terms))
	for _, term := range terms {
		data = append(data, []string{strings.ToUpper(term.Metric), term.Description, fmt.Sprintf("%.3f", term.Weight)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	labels := []string{
		fmt.Sprintf("%s >= 0", contract.HighValue),
		fmt.Sprintf("%s >= -4", contract.ModerateValue),
		fmt.Sprintf("%s >= -8", contract.LowValue),
		fmt.Sprintf("%s < -8", contract.PoorValue),
	}
	_, err := fmt.Fprintf(w, "Labels: %s\n", strings.Join(labels, ", "))
	return err
}

// writeCSVFormula writes one row per term.
func writeCSVFormula(w io.Writer, terms []schema.FormulaTerm) error {
	return writeCSVWithHeader(w, []string{"metric", "description", "weight"}, func(cw *csv.Writer) error {
		for _, term := range terms {
			if err := cw.Write([]string{term.Metric, term.Description, fmt.Sprintf("%g", term.Weight)}); err != nil {
				return err
			}
		}
		return nil
	})
}
