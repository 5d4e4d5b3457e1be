package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/reusabilityapi/reusability/core"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// formulaSetup loads the output options only, since the formula needs no provider.
func formulaSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors
	color.NoColor = !colors

	precision := viper.GetInt("precision")
	if precision < 1 || precision > contract.MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", contract.MaxPrecision, precision)
	}
	cfg.Precision = precision

	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// formulaCmd prints the reusability formula.
var formulaCmd = &cobra.Command{
	Use:   "formula",
	Short: "Print the reusability formula and its weights.",
	Long: `Print the weighted terms of the reusability index and the label thresholds.

No metrics provider is contacted.

Examples:
  reusability formula
  reusability formula --output json`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return formulaSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFormula(cfg); err != nil {
			contract.LogFatal("Cannot print formula", err)
		}
	},
}
