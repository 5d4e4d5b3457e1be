package core

import (
	"fmt"
	"io"
	"os"

	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// headerWriter receives the query header. It is stderr so piped output stays clean.
var headerWriter io.Writer = os.Stderr

// logQueryHeader prints a concise, 2-line header before text output.
func logQueryHeader(cfg *contract.Config, kind schema.QueryKind) {
	if cfg.Output != schema.TextOut && cfg.Output != "" {
		return
	}

	// Line 1: The query summary (Repo and Query kind)
	_, _ = fmt.Fprintf(headerWriter, "🔎 Repo: %s (Query: %s)\n", cfg.RepoURL, kind)

	// Line 2: The target the indices were computed for
	switch {
	case kind == schema.ProjectPerCommitQuery:
		_, _ = fmt.Fprintln(headerWriter, "📌 Target: all commits")
	case cfg.FilePath != "":
		_, _ = fmt.Fprintf(headerWriter, "📌 Target: %s @ %s\n", cfg.FilePath, contract.ShortSHA(cfg.CommitSHA))
	default:
		_, _ = fmt.Fprintf(headerWriter, "📌 Target: %s\n", contract.ShortSHA(cfg.CommitSHA))
	}
}
