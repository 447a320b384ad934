package rank

import (
	"sort"
	"strings"
	"time"
)

func normalizeSortMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "score", "best":
		return "score"
	case "amount", "value", "cash":
		return "amount"
	case "percent", "pct", "rate":
		return "percent"
	case "expiry", "expiration", "ending", "end":
		return "expiry"
	case "feed", "none", "input":
		return "feed"
	default:
		return "score"
	}
}

// sortOffers orders in place. Sorts are stable so feed order breaks ties.
func sortOffers(offers []RankedOffer, mode string) {
	switch normalizeSortMode(mode) {
	case "feed":
		return
	case "amount":
		sort.SliceStable(offers, func(i, j int) bool {
			return amountOf(offers[i]) > amountOf(offers[j])
		})
	case "percent":
		sort.SliceStable(offers, func(i, j int) bool {
			return percentOf(offers[i]) > percentOf(offers[j])
		})
	case "expiry":
		sort.SliceStable(offers, func(i, j int) bool {
			ti, iok := parseDealDate(offers[i].Record.Expires)
			tj, jok := parseDealDate(offers[j].Record.Expires)
			if iok != jok {
				return iok
			}
			if !iok {
				return false
			}
			return ti.Before(tj)
		})
	default:
		sort.SliceStable(offers, func(i, j int) bool {
			return offers[i].Score.FinalScore > offers[j].Score.FinalScore
		})
	}
}

func amountOf(o RankedOffer) float64 {
	if o.Value.AmountBack == nil {
		return 0
	}
	return *o.Value.AmountBack
}

func percentOf(o RankedOffer) float64 {
	if o.Value.PercentBack == nil {
		return 0
	}
	return *o.Value.PercentBack
}

func parseDealDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	layouts := []string{
		"2006-01-02",
		"1/2/2006",
		"01/02/2006",
		"1/2/06",
		"01/02/06",
		"Jan 2, 2006",
		"January 2, 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
