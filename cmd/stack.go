package cmd

import (
	"fmt"

	"github.com/dealstackr/dealstackr/internal/display"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/stack"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	flagCart            float64
	flagPromoPercent    float64
	flagPromoAmount     float64
	flagEmailPercent    float64
	flagEmailAmount     float64
	flagCardCash        float64
	flagCardPercent     float64
	flagCardPoints      int
	flagCardProgram     string
	flagCardMinSpend    float64
	flagCardMaxCashback float64
	flagPortalPercent   float64
	flagPortalAmount    float64
)

var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Simulate stacking savings mechanisms on one purchase",
	Long: "Applies a promo code, an email signup discount, a card-linked offer, and a\n" +
		"shopping portal to a cart value, in that order, and reports the net spend,\n" +
		"total savings, and stack tier.",
	Example: `  dealstackr stack --cart 400 --promo-percent 20
  dealstackr stack --cart 250 --promo-amount 25 --card-cash 50 --card-min-spend 200
  dealstackr stack --cart 500 --card-points 5000 --card-program mr --portal-percent 4`,
	RunE: runStack,
}

func init() {
	rootCmd.AddCommand(stackCmd)
	registerStackInputFlags(stackCmd.Flags())
}

func registerStackInputFlags(f *pflag.FlagSet) {
	f.Float64Var(&flagCart, "cart", 0, "Cart value in dollars before any discounts")
	f.Float64Var(&flagPromoPercent, "promo-percent", 0, "Promo code percent off the cart")
	f.Float64Var(&flagPromoAmount, "promo-amount", 0, "Promo code fixed dollars off the cart")
	f.Float64Var(&flagEmailPercent, "email-percent", 0, "Email signup percent off (applies after the promo)")
	f.Float64Var(&flagEmailAmount, "email-amount", 0, "Email signup fixed dollars off")
	f.Float64Var(&flagCardCash, "card-cash", 0, "Card offer fixed cashback in dollars")
	f.Float64Var(&flagCardPercent, "card-percent", 0, "Card offer percent cashback on net spend")
	f.IntVar(&flagCardPoints, "card-points", 0, "Card offer points or miles earned")
	f.StringVar(&flagCardProgram, "card-program", "", "Points program (mr, ur, thankyou, venture, points)")
	f.Float64Var(&flagCardMinSpend, "card-min-spend", 0, "Card offer minimum spend to qualify")
	f.Float64Var(&flagCardMaxCashback, "card-max-cashback", 0, "Cap on total card cashback (0 = none)")
	f.Float64Var(&flagPortalPercent, "portal-percent", 0, "Shopping portal percent back on net spend")
	f.Float64Var(&flagPortalAmount, "portal-amount", 0, "Shopping portal fixed bonus in dollars")
}

func resetStackFlags() {
	flagCart = 0
	flagPromoPercent = 0
	flagPromoAmount = 0
	flagEmailPercent = 0
	flagEmailAmount = 0
	flagCardCash = 0
	flagCardPercent = 0
	flagCardPoints = 0
	flagCardProgram = ""
	flagCardMinSpend = 0
	flagCardMaxCashback = 0
	flagPortalPercent = 0
	flagPortalAmount = 0
}

func buildStackInput() (stack.Input, error) {
	nonNegative := []struct {
		flag  string
		value float64
	}{
		{"cart", flagCart},
		{"promo-percent", flagPromoPercent},
		{"promo-amount", flagPromoAmount},
		{"email-percent", flagEmailPercent},
		{"email-amount", flagEmailAmount},
		{"card-cash", flagCardCash},
		{"card-percent", flagCardPercent},
		{"card-points", float64(flagCardPoints)},
		{"card-min-spend", flagCardMinSpend},
		{"card-max-cashback", flagCardMaxCashback},
		{"portal-percent", flagPortalPercent},
		{"portal-amount", flagPortalAmount},
	}
	for _, v := range nonNegative {
		if v.value < 0 {
			return stack.Input{}, invalidArgsError(
				fmt.Sprintf("--%s cannot be negative", v.flag),
				"dealstackr stack --cart 400 --promo-percent 20",
			)
		}
	}

	program := offer.Program("")
	if flagCardProgram != "" {
		p, ok := offer.ProgramFromString(flagCardProgram)
		if !ok {
			return stack.Input{}, invalidArgsError(
				fmt.Sprintf("unknown program %q for --card-program", flagCardProgram),
				"Use mr, ur, thankyou, venture, or points.",
			)
		}
		program = p
	}

	return stack.Input{
		CartValue:       flagCart,
		PromoPercent:    flagPromoPercent,
		PromoAmount:     flagPromoAmount,
		EmailPercent:    flagEmailPercent,
		EmailAmount:     flagEmailAmount,
		CardCashFixed:   flagCardCash,
		CardCashPercent: flagCardPercent,
		CardPoints:      flagCardPoints,
		CardProgram:     program,
		CardMinSpend:    flagCardMinSpend,
		CardMaxCashback: flagCardMaxCashback,
		PortalPercent:   flagPortalPercent,
		PortalAmount:    flagPortalAmount,
	}, nil
}

func runStack(cmd *cobra.Command, _ []string) error {
	in, err := buildStackInput()
	if err != nil {
		return err
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	sim := &stack.Simulator{PointValue: cfg.RedemptionValues()}
	result := sim.Simulate(in)

	if flagJSON {
		return display.PrintStackJSON(cmd.OutOrStdout(), result)
	}
	display.PrintStack(cmd.OutOrStdout(), result)
	return nil
}
