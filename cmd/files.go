package cmd

import (
	"github.com/reusabilityapi/reusability/core"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/spf13/cobra"
)

// filesCmd ranks every file of a commit by reusability index.
var filesCmd = &cobra.Command{
	Use:   "files <repo-url> <sha>",
	Short: "Show the files of a commit ranked by reusability index.",
	Long: `Fetch the CK metrics of every file at a commit and rank the files by reusability index.

The index combines six object-oriented metrics (CBO, DIT, WMC, RFC, LCOM, NOCC)
into a single score. Higher is more reusable; an index of zero or above is High.

Examples:
  # Rank the files of a commit
  reusability files https://github.com/acme/widgets 9fceb02 --metrics-url http://localhost:8080

  # Only request the first 50 records from the provider
  reusability files https://github.com/acme/widgets 9fceb02 --limit 50

  # Export the ranking to CSV
  reusability files https://github.com/acme/widgets 9fceb02 --output csv --output-file files.csv`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFiles(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute file indices", err)
		}
	},
}

// fileCmd shows the indices of a single file at a commit.
var fileCmd = &cobra.Command{
	Use:   "file <repo-url> <sha> <file-path>",
	Short: "Show the reusability index of one file at a commit.",
	Long: `Fetch the metric records of one file at a commit and compute their reusability indices.

Rows are printed in the order the provider returns them, one per revision.

Examples:
  # Show one file
  reusability file https://github.com/acme/widgets 9fceb02 src/main/java/Widget.java

  # As JSON
  reusability file https://github.com/acme/widgets 9fceb02 src/main/java/Widget.java --output json`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFile(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute file index", err)
		}
	},
}
