package rank_test

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dealstackr/dealstackr/internal/feed"
	"github.com/dealstackr/dealstackr/internal/rank"
	"github.com/dealstackr/dealstackr/internal/score"
	"github.com/stretchr/testify/assert"
)

// referenceApply is a deliberately naive multi-pass implementation used to
// pin Apply's semantics.
func referenceApply(offers []rank.RankedOffer, opts rank.Options) []rank.RankedOffer {
	result := offers

	if opts.Stackable {
		result = referenceWhere(result, func(o rank.RankedOffer) bool {
			return o.Record.Stackable
		})
	}

	if band := referenceBand(opts.Band); band != "" {
		result = referenceWhere(result, func(o rank.RankedOffer) bool {
			return string(o.Score.Band) == band
		})
	}

	if opts.MinScore > 0 {
		result = referenceWhere(result, func(o rank.RankedOffer) bool {
			return o.Score.FinalScore >= opts.MinScore
		})
	}

	if opts.Card != "" {
		card := strings.ToLower(strings.TrimSpace(opts.Card))
		result = referenceWhere(result, func(o rank.RankedOffer) bool {
			return strings.Contains(strings.ToLower(rank.Deref(o.Record.Card)), card)
		})
	}

	if opts.Category != "" {
		result = referenceWhere(result, func(o rank.RankedOffer) bool {
			return rank.ContainsIgnoreCase(o.Record.Categories, opts.Category)
		})
	}

	if opts.Query != "" {
		q := strings.ToLower(strings.TrimSpace(opts.Query))
		result = referenceWhere(result, func(o rank.RankedOffer) bool {
			text := strings.ToLower(rank.CleanText(rank.Deref(o.Record.OfferText)))
			merchant := strings.ToLower(rank.CleanText(rank.Deref(o.Record.Merchant)))
			desc := strings.ToLower(rank.CleanText(rank.Deref(o.Record.Description)))
			return strings.Contains(text, q) || strings.Contains(merchant, q) || strings.Contains(desc, q)
		})
	}

	result = referenceSort(result, opts.Sort)

	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result
}

func referenceWhere(offers []rank.RankedOffer, fn func(rank.RankedOffer) bool) []rank.RankedOffer {
	var result []rank.RankedOffer
	for _, o := range offers {
		if fn(o) {
			result = append(result, o)
		}
	}
	return result
}

func referenceBand(raw string) string {
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

func referenceSort(offers []rank.RankedOffer, mode string) []rank.RankedOffer {
	out := append([]rank.RankedOffer(nil), offers...)
	value := func(o rank.RankedOffer, p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "feed", "none", "input":
		return out
	case "amount", "value", "cash":
		sort.SliceStable(out, func(i, j int) bool {
			return value(out[i], out[i].Value.AmountBack) > value(out[j], out[j].Value.AmountBack)
		})
	case "percent", "pct", "rate":
		sort.SliceStable(out, func(i, j int) bool {
			return value(out[i], out[i].Value.PercentBack) > value(out[j], out[j].Value.PercentBack)
		})
	case "expiry", "expiration", "ending", "end":
		sort.SliceStable(out, func(i, j int) bool {
			ti, iok := referenceDate(out[i].Record.Expires)
			tj, jok := referenceDate(out[j].Record.Expires)
			if iok != jok {
				return iok
			}
			if !iok {
				return false
			}
			return ti.Before(tj)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Score.FinalScore > out[j].Score.FinalScore
		})
	}
	return out
}

func referenceDate(raw string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "1/2/2006", "01/02/2006", "1/2/06", "01/02/06", "Jan 2, 2006", "January 2, 2006"} {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func randomRecord(rng *rand.Rand, idx int) feed.OfferRecord {
	makePtr := func(v string) *string { return &v }

	textPool := []*string{
		nil,
		makePtr("Get $50 back on $250+"),
		makePtr("5% back at gas stations"),
		makePtr("Earn 5,000 Membership Rewards points"),
		makePtr("10% back on $100"),
		makePtr("$30 off your next order"),
		makePtr("Free shipping"),
	}
	cardPool := []*string{nil, makePtr("Amex Gold"), makePtr("Chase Freedom"), makePtr("Citi Premier")}
	merchantPool := []*string{nil, makePtr("Whole Foods"), makePtr("Delta"), makePtr("Shell")}
	expiryPool := []string{"", "2026-09-30", "9/15/2026", "soon"}

	// categories stay exact group names so the synonym matcher and the plain
	// reference agree
	catPool := []string{"dining", "travel", "grocery", "gas", "retail"}
	catCount := rng.Intn(3)
	cats := make([]string, 0, catCount)
	for range catCount {
		cats = append(cats, catPool[rng.Intn(len(catPool))])
	}

	return feed.OfferRecord{
		ID:         fmt.Sprintf("id-%d", idx),
		Card:       cardPool[rng.Intn(len(cardPool))],
		Merchant:   merchantPool[rng.Intn(len(merchantPool))],
		OfferText:  textPool[rng.Intn(len(textPool))],
		Stackable:  rng.Intn(3) == 0,
		Expires:    expiryPool[rng.Intn(len(expiryPool))],
		Categories: cats,
	}
}

func randomApplyOptions(rng *rand.Rand) rank.Options {
	bands := []string{"", "elite", "strong", "decent", "low", "top"}
	scores := []int{0, 10, 40, 70}
	cards := []string{"", "amex", "chase", "citi"}
	categories := []string{"", "dining", "travel", "gas"}
	queries := []string{"", "back", "points", "shell"}
	sorts := []string{"", "score", "amount", "percent", "expiry", "feed"}
	limits := []int{0, 1, 3, 10, 50}
	return rank.Options{
		Band:      bands[rng.Intn(len(bands))],
		MinScore:  scores[rng.Intn(len(scores))],
		Stackable: rng.Intn(2) == 0,
		Card:      cards[rng.Intn(len(cards))],
		Category:  categories[rng.Intn(len(categories))],
		Query:     queries[rng.Intn(len(queries))],
		Sort:      sorts[rng.Intn(len(sorts))],
		Limit:     limits[rng.Intn(len(limits))],
	}
}

func TestApply_ReferenceEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	weights := score.DefaultWeights()

	for caseNum := 0; caseNum < 500; caseNum++ {
		recordCount := rng.Intn(60)
		records := make([]feed.OfferRecord, 0, recordCount)
		for i := range recordCount {
			records = append(records, randomRecord(rng, i))
		}
		offers := rank.Rank(records, weights)

		opts := randomApplyOptions(rng)
		got := rank.Apply(offers, opts)
		want := referenceApply(offers, opts)

		assert.Equal(t, want, got, "mismatch for opts=%+v case=%d", opts, caseNum)
	}
}

func benchOffers() []rank.RankedOffer {
	rng := rand.New(rand.NewSource(7))
	records := make([]feed.OfferRecord, 0, 1000)
	for i := 0; i < 1000; i++ {
		records = append(records, randomRecord(rng, i))
	}
	return rank.Rank(records, score.DefaultWeights())
}

func benchOptions() rank.Options {
	return rank.Options{
		MinScore: 10,
		Card:     "amex",
		Category: "grocery",
		Query:    "back",
		Sort:     "amount",
		Limit:    50,
	}
}

func BenchmarkApply_ReferenceWorkload_1kOffers(b *testing.B) {
	offers := benchOffers()
	opts := benchOptions()

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = rank.Apply(offers, opts)
	}
}

func TestApply_AllocationBudget(t *testing.T) {
	offers := benchOffers()
	opts := benchOptions()

	allocs := testing.AllocsPerRun(100, func() {
		_ = rank.Apply(offers, opts)
	})

	// Guardrail against reintroducing per-item lowering or multi-pass slices.
	assert.LessOrEqual(t, allocs, 80.0)
}

func BenchmarkApply_LegacyReference_1kOffers(b *testing.B) {
	offers := benchOffers()
	opts := benchOptions()

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = referenceApply(offers, opts)
	}
}
