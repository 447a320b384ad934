package stack

import "github.com/dealstackr/dealstackr/internal/offer"

// Input describes a cart and up to four stacked savings mechanisms. Zero
// values mean a mechanism is not in play.
type Input struct {
	CartValue float64 `json:"cartValue"`

	PromoPercent float64 `json:"promoPercent"`
	PromoAmount  float64 `json:"promoAmount"`

	EmailPercent float64 `json:"emailPercent"`
	EmailAmount  float64 `json:"emailAmount"`

	CardCashFixed   float64       `json:"cardCashFixed"`
	CardCashPercent float64       `json:"cardCashPercent"`
	CardPoints      int           `json:"cardPoints"`
	CardProgram     offer.Program `json:"cardProgram"`
	CardMinSpend    float64       `json:"cardMinSpend"`
	CardMaxCashback float64       `json:"cardMaxCashback"`

	PortalPercent float64 `json:"portalPercent"`
	PortalAmount  float64 `json:"portalAmount"`
}

// Line is one step of the human-readable breakdown. Amounts are signed:
// negative for money off the charge, positive for money earned back.
type Line struct {
	Icon   string  `json:"icon"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note,omitempty"`
}

// Tier names how many savings layers landed.
type Tier string

const (
	TierNone   Tier = "No Stack"
	TierSingle Tier = "Single Stack"
	TierDouble Tier = "Double Stack"
	TierTriple Tier = "Triple Stack"
	TierQuad   Tier = "Quad Stack"
)

// Result is the full trace of one simulation: stage amounts, threshold
// outcome, per-mechanism values, aggregates, and the ordered breakdown.
type Result struct {
	CartValue float64 `json:"cartValue"`

	PromoSavings float64 `json:"promoSavings"`
	AfterPromo   float64 `json:"afterPromo"`
	EmailSavings float64 `json:"emailSavings"`
	NetSpend     float64 `json:"netSpend"`

	MeetsCardThreshold   bool    `json:"meetsCardThreshold"`
	ThresholdShortfall   float64 `json:"thresholdShortfall"`
	MinimumCartToQualify float64 `json:"minimumCartToQualify"`

	CardCashValue   float64 `json:"cardCashValue"`
	CardPointsValue float64 `json:"cardPointsValue"`
	TotalCardValue  float64 `json:"totalCardValue"`
	PortalValue     float64 `json:"portalValue"`

	TotalDiscounts           float64 `json:"totalDiscounts"`
	TotalCashback            float64 `json:"totalCashback"`
	TotalSavings             float64 `json:"totalSavings"`
	FinalEffectiveCost       float64 `json:"finalEffectiveCost"`
	EffectiveDiscountPercent float64 `json:"effectiveDiscountPercent"`

	StackLayers int      `json:"stackLayers"`
	Tier        Tier     `json:"tier"`
	Breakdown   []Line   `json:"breakdown"`
	Warnings    []string `json:"warnings,omitempty"`
}

// DefaultPointValue returns the redemption estimate used to turn card points
// into dollars, in cents per point. The offer package's screening table is
// calibrated differently; the two tables stay separate.
func DefaultPointValue() map[offer.Program]float64 {
	return map[offer.Program]float64{
		offer.MembershipRewards: 2.0,
		offer.UltimateRewards:   2.0,
		offer.ThankYouPoints:    1.8,
		offer.VentureMiles:      1.7,
		offer.GenericPoints:     1.0,
	}
}
