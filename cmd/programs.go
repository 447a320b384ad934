package cmd

import (
	"github.com/dealstackr/dealstackr/internal/display"
	"github.com/spf13/cobra"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List points programs and their valuations",
	Long: "Lists every recognized points program with its screening valuation (used\n" +
		"while scoring offer text) and its redemption valuation (used by the stack\n" +
		"simulator), in cents per point.",
	Example: `  dealstackr programs
  dealstackr programs --json`,
	RunE: runPrograms,
}

func init() {
	rootCmd.AddCommand(programsCmd)
}

func runPrograms(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	if flagJSON {
		return display.PrintProgramsJSON(cmd.OutOrStdout(), cfg.ScreeningValues(), cfg.RedemptionValues())
	}
	display.PrintPrograms(cmd.OutOrStdout(), cfg.ScreeningValues(), cfg.RedemptionValues())
	return nil
}
