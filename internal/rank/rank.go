package rank

import (
	"strings"

	"github.com/dealstackr/dealstackr/internal/feed"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/score"
)

// RankedOffer pairs a feed record with its parsed terms and score.
type RankedOffer struct {
	Record feed.OfferRecord  `json:"record"`
	Value  offer.ParsedValue `json:"value"`
	Score  score.Breakdown   `json:"score"`
}

// Rank parses and scores every record with the default parser, keeping feed
// order.
func Rank(records []feed.OfferRecord, w score.Weights) []RankedOffer {
	return RankWith(nil, records, w)
}

// RankWith ranks using a custom parser (nil falls back to the default).
func RankWith(p *offer.Parser, records []feed.OfferRecord, w score.Weights) []RankedOffer {
	offers := make([]RankedOffer, 0, len(records))
	for _, rec := range records {
		var v offer.ParsedValue
		if p != nil {
			v = p.Parse(CleanText(Deref(rec.OfferText)))
		} else {
			v = offer.Parse(CleanText(Deref(rec.OfferText)))
		}
		offers = append(offers, RankedOffer{
			Record: rec,
			Value:  v,
			Score:  w.Score(v.AmountBack, v.PercentBack, v.MinSpend, rec.Stackable),
		})
	}
	return offers
}

// Options holds all filter criteria for ranked offers.
type Options struct {
	Band      string
	MinScore  int
	Stackable bool
	Card      string
	Category  string
	Query     string
	Sort      string
	Limit     int
}

// Apply filters ranked offers in a single pass, then sorts and truncates.
func Apply(offers []RankedOffer, opts Options) []RankedOffer {
	band := normalizeBand(opts.Band)
	card := strings.ToLower(strings.TrimSpace(opts.Card))
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	matcher := newCategoryMatcher(opts.Category)

	var result []RankedOffer
	for _, o := range offers {
		if opts.Stackable && !o.Record.Stackable {
			continue
		}
		if band != "" && string(o.Score.Band) != band {
			continue
		}
		if opts.MinScore > 0 && o.Score.FinalScore < opts.MinScore {
			continue
		}
		if card != "" && !containsFold(Deref(o.Record.Card), card) {
			continue
		}
		if matcher.active() && !matcher.matchesAny(o.Record.Categories) {
			continue
		}
		if query != "" && !matchesQuery(o, query) {
			continue
		}
		result = append(result, o)
	}

	sortOffers(result, opts.Sort)

	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result
}

// matchesQuery searches offer text, merchant, and description without
// per-item lowering, which keeps Apply allocation-light on large feeds.
func matchesQuery(o RankedOffer, q string) bool {
	return containsFold(CleanText(Deref(o.Record.OfferText)), q) ||
		containsFold(CleanText(Deref(o.Record.Merchant)), q) ||
		containsFold(CleanText(Deref(o.Record.Description)), q)
}

func normalizeBand(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "elite", "top":
		return "elite"
	case "strong":
		return "strong"
	case "decent", "mid", "ok":
		return "decent"
	case "low":
		return "low"
	default:
		return ""
	}
}
