package offer

import "strings"

// Program identifies a card rewards currency recognized in offer text.
type Program string

const (
	MembershipRewards Program = "Membership Rewards"
	UltimateRewards   Program = "Ultimate Rewards"
	ThankYouPoints    Program = "ThankYou"
	VentureMiles      Program = "Venture Miles"
	GenericPoints     Program = "Points"
)

// Programs lists every known program, generic last.
func Programs() []Program {
	return []Program{
		MembershipRewards,
		UltimateRewards,
		ThankYouPoints,
		VentureMiles,
		GenericPoints,
	}
}

// ProgramFromString matches a user-supplied program name, tolerating case,
// separators, and common abbreviations like "mr" or "typ".
func ProgramFromString(raw string) (Program, bool) {
	key := strings.ToLower(raw)
	for _, sep := range []string{" ", "-", "_"} {
		key = strings.ReplaceAll(key, sep, "")
	}

	switch key {
	case "membershiprewards", "membershiprewardspoints", "mr", "amex", "americanexpress":
		return MembershipRewards, true
	case "ultimaterewards", "ultimaterewardspoints", "ur", "chase":
		return UltimateRewards, true
	case "thankyou", "thankyoupoints", "typ", "citi":
		return ThankYouPoints, true
	case "venturemiles", "venture", "capitalone", "miles":
		return VentureMiles, true
	case "points", "generic", "genericpoints":
		return GenericPoints, true
	}
	return GenericPoints, false
}

// PointsInfo describes a points or miles earn parsed out of offer text.
type PointsInfo struct {
	Amount            int     `json:"amount"`
	Program           Program `json:"program"`
	EstimatedValueUSD float64 `json:"estimatedValueUsd"`
}

// ParsedValue is the structured reading of one offer string. A field is nil
// when the text never states it; AmountBack may instead be estimated from
// Points or derived from PercentBack and MinSpend.
type ParsedValue struct {
	AmountBack  *float64    `json:"amountBack"`
	PercentBack *float64    `json:"percentBack"`
	MinSpend    *float64    `json:"minSpend"`
	Points      *PointsInfo `json:"points"`
}

// DefaultPointValue returns the screening valuation applied while parsing,
// in cents per point. Redemption estimates live in the stack package and use
// a different calibration; the two tables are intentionally separate.
func DefaultPointValue() map[Program]float64 {
	return map[Program]float64{
		MembershipRewards: 1.5,
		UltimateRewards:   1.5,
		ThankYouPoints:    1.0,
		VentureMiles:      1.0,
		GenericPoints:     1.0,
	}
}
