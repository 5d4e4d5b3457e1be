// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteFiles prints file-level indices using the configured output format.
func (ow *OutWriter) WriteFiles(results []schema.FileReusabilityIndex, cfg *contract.Config, duration time.Duration) error {
	return WriteFileResults(results, cfg, duration)
}

// WriteFileRows prints unranked file-level indices in the order given.
func (ow *OutWriter) WriteFileRows(results []schema.FileReusabilityIndex, cfg *contract.Config, duration time.Duration) error {
	return WriteFileRows(results, cfg, duration)
}

// WriteProjects prints project-level indices using the configured output format.
func (ow *OutWriter) WriteProjects(results []schema.ProjectReusabilityIndex, cfg *contract.Config, duration time.Duration) error {
	return WriteProjectResults(results, cfg, duration)
}

// WriteReport prints a combined commit report using the configured output format.
func (ow *OutWriter) WriteReport(report schema.CommitReport, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResults(report, cfg, duration)
}

// WriteFormula prints the reusability formula using the configured output format.
func (ow *OutWriter) WriteFormula(terms []schema.FormulaTerm, cfg *contract.Config) error {
	return WriteFormulaTerms(terms, cfg)
}

// Fixed column budget of the file table: Rank + Commit + Index + Label with borders/padding.
const fileTableBaseWidth = 50

// GetMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}
	return clampPathWidth(termWidth - fileTableBaseWidth)
}

// clampPathWidth keeps path columns between 15 and 70 characters.
func clampPathWidth(available int) int {
	return min(max(available, 15), 70)
}
