package score

import "math"

// Weights holds the tunable constants behind the 0-100 offer score. Every cap
// and weight is configuration, never an inlined literal.
type Weights struct {
	MaxAmountBack          float64 `yaml:"max_amount_back"`
	AbsoluteWeight         float64 `yaml:"absolute_weight"`
	MaxPercentBack         float64 `yaml:"max_percent_back"`
	PercentWeight          float64 `yaml:"percent_weight"`
	MaxMinSpend            float64 `yaml:"max_min_spend"`
	SpendAdjustmentMax     float64 `yaml:"spend_adjustment_max"`
	UnknownSpendAdjustment float64 `yaml:"unknown_spend_adjustment"`
	StackableBonus         float64 `yaml:"stackable_bonus"`
}

// DefaultWeights returns the stock scoring weights.
func DefaultWeights() Weights {
	return Weights{
		MaxAmountBack:          60,
		AbsoluteWeight:         55,
		MaxPercentBack:         30,
		PercentWeight:          35,
		MaxMinSpend:            400,
		SpendAdjustmentMax:     10,
		UnknownSpendAdjustment: 3,
		StackableBonus:         15,
	}
}

// Breakdown shows each factor of a computed score.
type Breakdown struct {
	AbsoluteScore   float64 `json:"absoluteScore"`
	PercentScore    float64 `json:"percentScore"`
	SpendAdjustment float64 `json:"spendAdjustment"`
	StackableBonus  float64 `json:"stackableBonus"`
	RawScore        float64 `json:"rawScore"`
	FinalScore      int     `json:"finalScore"`
	Band            Band    `json:"band"`
}

// Score computes the composite offer score with the default weights.
func Score(amountBack, percentBack, minSpend *float64, stackable bool) Breakdown {
	return DefaultWeights().Score(amountBack, percentBack, minSpend, stackable)
}

// Score computes the composite offer score. Nil amount and percent count as
// zero so unparseable offers rank last rather than mid-table; an unknown
// minimum spend costs a small flat adjustment. Non-positive caps contribute
// nothing instead of dividing by zero.
func (w Weights) Score(amountBack, percentBack, minSpend *float64, stackable bool) Breakdown {
	b := Breakdown{}

	if w.MaxAmountBack > 0 {
		b.AbsoluteScore = math.Min(deref(amountBack)/w.MaxAmountBack, 1) * w.AbsoluteWeight
	}
	if w.MaxPercentBack > 0 {
		b.PercentScore = math.Min(deref(percentBack)/w.MaxPercentBack, 1) * w.PercentWeight
	}

	if minSpend != nil && *minSpend > 0 {
		if w.MaxMinSpend > 0 {
			b.SpendAdjustment = math.Min(*minSpend/w.MaxMinSpend, 1) * w.SpendAdjustmentMax
		}
	} else {
		b.SpendAdjustment = w.UnknownSpendAdjustment
	}

	if stackable {
		b.StackableBonus = w.StackableBonus
	}

	b.RawScore = b.AbsoluteScore + b.PercentScore - b.SpendAdjustment + b.StackableBonus
	b.FinalScore = int(math.Round(clamp(b.RawScore, 0, 100)))
	b.Band = BandFor(b.FinalScore)
	return b
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
