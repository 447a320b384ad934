package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/rank"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive deal stack calculator",
	Long: "Opens a terminal UI for the stack simulator: edit the cart and each savings\n" +
		"mechanism in place and watch the totals update. With --input, card offers\n" +
		"from the feed can be picked straight into the card fields.",
	Example: `  dealstackr tui
  dealstackr tui --cart 400 --promo-percent 20
  dealstackr tui --input offers.json`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	registerStackInputFlags(tuiCmd.Flags())
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`dealstackr tui` requires an interactive terminal",
			"Use `dealstackr stack --cart 400 --json` in pipelines.",
		)
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	seed, err := buildStackInput()
	if err != nil {
		return err
	}

	// The offer picker is only available when a feed is configured.
	var offers []rank.RankedOffer
	if flagInput != "" || cfg.Feed != "" {
		records, err := resolveFeed(cmd, cfg)
		if err != nil {
			return err
		}
		parser := &offer.Parser{PointValue: cfg.ScreeningValues()}
		offers = rank.Apply(rank.RankWith(parser, records, cfg.Scoring), rank.Options{})
	}

	model := newStackTUIModel(seed, offers, cfg.RedemptionValues())
	program := tea.NewProgram(
		model,
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}
