package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dealstackr/dealstackr/internal/config"
	"github.com/dealstackr/dealstackr/internal/display"
	"github.com/dealstackr/dealstackr/internal/feed"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/rank"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	flagInput     string
	flagConfig    string
	flagJSON      bool
	flagQuery     string
	flagBand      string
	flagMinScore  int
	flagStackable bool
	flagCard      string
	flagCategory  string
	flagSort      string
	flagLimit     int
)

var rootCmd = &cobra.Command{
	Use:   "dealstackr",
	Short: "Score card-linked offers and simulate deal stacks",
	Long: "CLI tool that parses free-text card-linked offers, scores them 0-100, and\n" +
		"simulates how promo codes, email signups, card offers, and shopping portals\n" +
		"stack on a single purchase.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -limit 10, limit=10, --limt 10).",
	Example: `  dealstackr --input offers.json
  dealstackr --input offers.json --band elite --sort amount
  dealstackr score "Get $50 back on $250+"
  dealstackr stack --cart 400 --promo-percent 20 --card-cash 50
  dealstackr programs --json
  dealstackr tui --input offers.json`,
	RunE: runRank,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagInput, "input", "i", "", "Offers feed file (JSON array or {\"offers\": [...]}; \"-\" reads stdin)")
	pf.StringVar(&flagConfig, "config", "", "Config file (default ~/.dealstackr/config.yaml)")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")

	registerRankFilterFlags(rootCmd.Flags())
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 {
		if err := printQuickStart(stdout, !isTTY(stdout)); err != nil {
			cliErr := classifyCLIError(err)
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	if shouldAutoJSON(normalizedArgs, isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

func resetCLIState() {
	flagInput = ""
	flagConfig = ""
	flagJSON = false
	flagQuery = ""
	flagBand = ""
	flagMinScore = 0
	flagStackable = false
	flagCard = ""
	flagCategory = ""
	flagSort = ""
	flagLimit = 0
	flagScoreStackable = false
	resetStackFlags()
	resetHelpFlags(rootCmd)
}

// resetHelpFlags clears cobra's own --help flag on every command so that a
// later runCLI call in the same process does not inherit a stale true value
// (pflag keeps parsed values between Execute calls).
func resetHelpFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, child := range cmd.Commands() {
		resetHelpFlags(child)
	}
}

func registerRankFilterFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagQuery, "query", "q", "", "Search offers by keyword in text/merchant/description")
	f.StringVarP(&flagBand, "band", "b", "", "Keep only one band (elite, strong, decent, low)")
	f.IntVar(&flagMinScore, "min-score", 0, "Keep offers scoring at least this much")
	f.BoolVar(&flagStackable, "stackable", false, "Keep only stackable offers")
	f.StringVar(&flagCard, "card", "", "Filter by card name substring")
	f.StringVarP(&flagCategory, "category", "c", "", "Filter by category (e.g., dining, travel, grocery)")
	f.StringVar(&flagSort, "sort", "", "Sort offers by score, amount, percent, expiry, or feed")
	f.IntVarP(&flagLimit, "limit", "n", 0, "Limit number of results (0 = all)")
}

func validateSortMode() error {
	switch strings.ToLower(strings.TrimSpace(flagSort)) {
	case "", "score", "best", "amount", "value", "cash", "percent", "pct", "rate",
		"expiry", "expiration", "ending", "end", "feed", "none", "input":
		return nil
	default:
		return invalidArgsError(
			"invalid value for --sort (use score, amount, percent, expiry, or feed)",
			"dealstackr --input offers.json --sort amount",
			"dealstackr --input offers.json --sort expiry",
		)
	}
}

func validateBandFlag() error {
	switch strings.ToLower(strings.TrimSpace(flagBand)) {
	case "", "elite", "top", "strong", "decent", "mid", "ok", "low":
		return nil
	default:
		return invalidArgsError(
			"invalid value for --band (use elite, strong, decent, or low)",
			"dealstackr --input offers.json --band elite",
			"dealstackr --input offers.json --band strong",
		)
	}
}

func loadCLIConfig() (config.Config, error) {
	return config.Load(flagConfig)
}

func resolveFeed(cmd *cobra.Command, cfg config.Config) ([]feed.OfferRecord, error) {
	path := flagInput
	fromConfig := false
	if path == "" {
		path = cfg.Feed
		fromConfig = path != ""
	}
	if path == "" {
		return nil, invalidArgsError(
			"please provide --input FILE or set feed: in the config",
			"dealstackr --input offers.json",
			"dealstackr --input - < offers.json",
		)
	}

	var records []feed.OfferRecord
	var err error
	if path == "-" {
		records, err = feed.Load(cmd.InOrStdin())
	} else {
		records, err = feed.LoadFile(path)
	}
	if err != nil {
		return nil, feedError("loading offers", err)
	}

	if fromConfig && !flagJSON {
		display.PrintFeedContext(cmd.OutOrStdout(), path, len(records))
	}
	return records, nil
}

func runRank(cmd *cobra.Command, _ []string) error {
	if err := validateSortMode(); err != nil {
		return err
	}
	if err := validateBandFlag(); err != nil {
		return err
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	records, err := resolveFeed(cmd, cfg)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return notFoundError(
			"no offers found in feed",
			"Check the feed file contents.",
		)
	}

	parser := &offer.Parser{PointValue: cfg.ScreeningValues()}
	offers := rank.RankWith(parser, records, cfg.Scoring)

	offers = rank.Apply(offers, rank.Options{
		Band:      flagBand,
		MinScore:  flagMinScore,
		Stackable: flagStackable,
		Card:      flagCard,
		Category:  flagCategory,
		Query:     flagQuery,
		Sort:      flagSort,
		Limit:     flagLimit,
	})

	if len(offers) == 0 {
		return notFoundError(
			"no offers match your filters",
			"Relax filters like --band/--category/--query.",
		)
	}

	if flagJSON {
		return display.PrintOffersJSON(cmd.OutOrStdout(), offers)
	}
	display.PrintOffers(cmd.OutOrStdout(), offers)
	return nil
}
