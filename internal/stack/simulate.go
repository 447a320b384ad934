package stack

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dealstackr/dealstackr/internal/offer"
)

// Simulator runs deal-stack computations. NewSimulator applies the default
// point valuation; callers with a tuned table set their own.
type Simulator struct {
	PointValue map[offer.Program]float64 // cents per point
}

// NewSimulator returns a simulator with the default point valuation.
func NewSimulator() *Simulator {
	return &Simulator{PointValue: DefaultPointValue()}
}

var defaultSimulator = NewSimulator()

// Simulate runs the default simulator. Safe for concurrent use.
func Simulate(in Input) Result {
	return defaultSimulator.Simulate(in)
}

// Simulate applies each mechanism in stack order: promo on the raw cart,
// email signup on the promo-discounted amount, card cashback against net
// spend, portal last. The order is load-bearing: every stage sees the
// previous stage's result, and the card threshold is checked against net
// spend, never the cart. A zero cart is valid and yields a zero result.
func (s *Simulator) Simulate(in Input) Result {
	r := Result{CartValue: in.CartValue}

	remaining := math.Max(in.CartValue, 0)

	// Stage 1: promo code on the full cart, fixed part capped so the
	// charge cannot go negative.
	if in.PromoPercent > 0 || in.PromoAmount > 0 {
		discount := remaining*in.PromoPercent/100 + in.PromoAmount
		if discount > remaining {
			discount = remaining
		}
		r.PromoSavings = roundCents(discount)
		remaining = roundCents(remaining - r.PromoSavings)
		r.addLine("🎟", "Promo code", neg(r.PromoSavings), promoNote(in))
	}
	r.AfterPromo = remaining

	// Stage 2: email signup compounds on the promo-discounted amount.
	if in.EmailPercent > 0 || in.EmailAmount > 0 {
		discount := remaining*in.EmailPercent/100 + in.EmailAmount
		if discount > remaining {
			discount = remaining
		}
		r.EmailSavings = roundCents(discount)
		remaining = roundCents(remaining - r.EmailSavings)
		r.addLine("📧", "Email signup", neg(r.EmailSavings), emailNote(in, r.AfterPromo))
	}

	// Stage 3: what actually hits the card.
	r.NetSpend = remaining

	// Stage 4: threshold check against net spend, with the inverse
	// computation of the cart needed to requalify.
	r.MeetsCardThreshold = true
	if in.CardMinSpend > 0 && r.NetSpend < in.CardMinSpend {
		r.MeetsCardThreshold = false
		r.ThresholdShortfall = roundCents(in.CardMinSpend - r.NetSpend)

		required, reachable := minimumCartToQualify(in)
		r.MinimumCartToQualify = required
		if reachable {
			r.Warnings = append(r.Warnings, fmt.Sprintf(
				"Net spend $%.2f is $%.2f short of the $%.2f card minimum. Raise the cart to $%.2f before discounts to qualify.",
				r.NetSpend, r.ThresholdShortfall, in.CardMinSpend, required))
		} else {
			r.Warnings = append(r.Warnings, fmt.Sprintf(
				"Combined discounts reach 100%%; no cart value can meet the $%.2f card minimum.",
				in.CardMinSpend))
		}
	}

	// Stage 5: card value, only when the threshold is met.
	program := in.CardProgram
	if program == "" {
		program = offer.GenericPoints
	}
	cardConfigured := in.CardCashFixed > 0 || in.CardCashPercent > 0 || in.CardPoints > 0
	switch {
	case cardConfigured && r.MeetsCardThreshold:
		fixed := in.CardCashFixed
		pctValue := r.NetSpend * in.CardCashPercent / 100
		capped := false
		if in.CardMaxCashback > 0 {
			if fixed > in.CardMaxCashback {
				fixed = in.CardMaxCashback
				capped = true
			}
			if pctValue > in.CardMaxCashback {
				pctValue = in.CardMaxCashback
				capped = true
			}
		}
		r.CardCashValue = roundCents(fixed + pctValue)
		if in.CardPoints > 0 {
			r.CardPointsValue = roundCents(float64(in.CardPoints) * s.centsPerPoint(program) / 100)
		}
		r.TotalCardValue = roundCents(r.CardCashValue + r.CardPointsValue)
		r.addLine("💳", "Card offer", r.TotalCardValue, cardNote(in, r, program, capped))
	case cardConfigured:
		r.addLine("💳", "Card offer", 0, fmt.Sprintf(
			"needs $%.2f net spend, have $%.2f", in.CardMinSpend, r.NetSpend))
	}

	// Stage 6: portal cashback on net spend, independent of the threshold.
	if in.PortalPercent > 0 || in.PortalAmount > 0 {
		r.PortalValue = roundCents(r.NetSpend*in.PortalPercent/100 + in.PortalAmount)
		r.addLine("🌐", "Cashback portal", r.PortalValue, portalNote(in, r.NetSpend))
	}

	// Stage 7: aggregates.
	r.TotalDiscounts = roundCents(r.PromoSavings + r.EmailSavings)
	r.TotalCashback = roundCents(r.TotalCardValue + r.PortalValue)
	r.TotalSavings = roundCents(r.TotalDiscounts + r.TotalCashback)
	r.FinalEffectiveCost = roundCents(in.CartValue - r.TotalSavings)
	if in.CartValue > 0 {
		r.EffectiveDiscountPercent = roundCents(r.TotalSavings / in.CartValue * 100)
	}

	// Stage 8: layers earn the stack its name.
	for _, v := range []float64{r.PromoSavings, r.EmailSavings, r.TotalCardValue, r.PortalValue} {
		if v > 0 {
			r.StackLayers++
		}
	}
	r.Tier = tierFor(r.StackLayers)

	return r
}

// minimumCartToQualify inverts the discount pipeline: the smallest raw cart
// that still nets out at or above the card threshold. The second return is
// false when the combined percents make the threshold unreachable.
func minimumCartToQualify(in Input) (float64, bool) {
	fixed := in.PromoAmount + in.EmailAmount
	pct := in.PromoPercent + in.EmailPercent
	if pct <= 0 {
		return roundCents(in.CardMinSpend + fixed), true
	}
	if pct >= 100 {
		return 0, false
	}
	return roundCents((in.CardMinSpend + fixed) / (1 - pct/100)), true
}

func (s *Simulator) centsPerPoint(program offer.Program) float64 {
	if cpp, ok := s.PointValue[program]; ok {
		return cpp
	}
	if cpp, ok := s.PointValue[offer.GenericPoints]; ok {
		return cpp
	}
	return 1.0
}

func tierFor(layers int) Tier {
	switch layers {
	case 0:
		return TierNone
	case 1:
		return TierSingle
	case 2:
		return TierDouble
	case 3:
		return TierTriple
	default:
		return TierQuad
	}
}

func (r *Result) addLine(icon, label string, amount float64, note string) {
	r.Breakdown = append(r.Breakdown, Line{Icon: icon, Label: label, Amount: amount, Note: note})
}

func promoNote(in Input) string {
	switch {
	case in.PromoPercent > 0 && in.PromoAmount > 0:
		return fmt.Sprintf("%s + $%.2f off the full cart", formatPct(in.PromoPercent), in.PromoAmount)
	case in.PromoPercent > 0:
		return fmt.Sprintf("%s off the full cart", formatPct(in.PromoPercent))
	default:
		return fmt.Sprintf("$%.2f off the full cart", in.PromoAmount)
	}
}

func emailNote(in Input, base float64) string {
	if in.EmailPercent > 0 {
		return fmt.Sprintf("%s of the $%.2f subtotal", formatPct(in.EmailPercent), base)
	}
	return "flat signup discount"
}

func cardNote(in Input, r Result, program offer.Program, capped bool) string {
	switch {
	case capped:
		return fmt.Sprintf("cashback capped at $%.2f", in.CardMaxCashback)
	case r.CardPointsValue > 0 && r.CardCashValue > 0:
		return fmt.Sprintf("$%.2f cash + %d points worth $%.2f", r.CardCashValue, in.CardPoints, r.CardPointsValue)
	case r.CardPointsValue > 0:
		return fmt.Sprintf("%d %s points", in.CardPoints, program)
	default:
		return "cashback on net spend"
	}
}

func portalNote(in Input, netSpend float64) string {
	if in.PortalPercent > 0 {
		return fmt.Sprintf("%s of $%.2f net spend", formatPct(in.PortalPercent), netSpend)
	}
	return "flat portal bonus"
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// neg avoids the negative-zero float a plain -v produces for v == 0.
func neg(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
