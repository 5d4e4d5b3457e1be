package cmd

import (
	"github.com/reusabilityapi/reusability/core"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/spf13/cobra"
)

// projectCmd shows the project index of a commit.
var projectCmd = &cobra.Command{
	Use:   "project <repo-url> <sha>",
	Short: "Show the project reusability index of a commit.",
	Long: `Compute the project reusability index of a commit as the mean index of its files.

Examples:
  reusability project https://github.com/acme/widgets 9fceb02`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProject(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute project index", err)
		}
	},
}

// historyCmd shows one project index per commit.
var historyCmd = &cobra.Command{
	Use:   "history <repo-url>",
	Short: "Show the project reusability index of every commit.",
	Long: `Fetch the commit-level metrics of a project and rank its commits by reusability index.

Examples:
  # Rank all commits
  reusability history https://github.com/acme/widgets

  # Only the first 100 commits known to the provider
  reusability history https://github.com/acme/widgets --limit 100`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute project history", err)
		}
	},
}

// reportCmd combines the project index and the file ranking of a commit.
var reportCmd = &cobra.Command{
	Use:   "report <repo-url> <sha>",
	Short: "Show the project index of a commit together with its file ranking.",
	Long: `Fetch the file ranking and the project index of a commit concurrently and print them together.

Examples:
  reusability report https://github.com/acme/widgets 9fceb02
  reusability report https://github.com/acme/widgets 9fceb02 --output json --output-file report.json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build commit report", err)
		}
	},
}
