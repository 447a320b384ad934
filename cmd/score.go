package cmd

import (
	"strings"

	"github.com/dealstackr/dealstackr/internal/display"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/rank"
	"github.com/spf13/cobra"
)

var flagScoreStackable bool

var scoreCmd = &cobra.Command{
	Use:   "score TEXT",
	Short: "Parse and score a single offer text",
	Long: "Parses one free-text offer (dollar amounts, percentages, points, minimum\n" +
		"spend) and scores it 0-100.",
	Example: `  dealstackr score "Get $50 back on $250+"
  dealstackr score "5% back at gas stations, up to $30"
  dealstackr score --stackable "Earn 5,000 Membership Rewards points"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().BoolVar(&flagScoreStackable, "stackable", false, "Score the offer as stackable")
}

func runScore(cmd *cobra.Command, args []string) error {
	text := rank.CleanText(strings.Join(args, " "))
	if text == "" {
		return invalidArgsError(
			"offer text is empty",
			`dealstackr score "Get $50 back on $250+"`,
		)
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	parser := &offer.Parser{PointValue: cfg.ScreeningValues()}
	value := parser.Parse(text)
	breakdown := cfg.Scoring.Score(value.AmountBack, value.PercentBack, value.MinSpend, flagScoreStackable)

	if flagJSON {
		return display.PrintScoreJSON(cmd.OutOrStdout(), text, value, breakdown)
	}
	display.PrintScore(cmd.OutOrStdout(), text, value, breakdown)
	return nil
}
