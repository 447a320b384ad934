package perf_test

import (
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/dealstackr/dealstackr/internal/display"
	"github.com/dealstackr/dealstackr/internal/feed"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/rank"
	"github.com/dealstackr/dealstackr/internal/score"
	"github.com/dealstackr/dealstackr/internal/stack"
)

func strPtr(v string) *string { return &v }

func benchmarkFeed(b *testing.B, count int) []byte {
	b.Helper()

	cards := []string{"Amex Gold", "Chase Freedom", "Citi Premier"}
	merchants := []string{"Whole Foods", "Delta", "Shell", "Best Buy"}
	categories := []string{"grocery", "dining", "gas"}

	records := make([]feed.OfferRecord, 0, count)
	for i := range count {
		var text string
		switch i % 5 {
		case 0:
			text = fmt.Sprintf("Get $%d back on $%d+", 20+(i%40), 100+(i%400))
		case 1:
			text = fmt.Sprintf("%d%% back on $%d", 5+(i%15), 50+(i%200))
		case 2:
			text = fmt.Sprintf("Earn %d Membership Rewards points", (i%9+1)*1000)
		case 3:
			text = fmt.Sprintf("$%d off your next order", 10+(i%30))
		case 4:
			text = fmt.Sprintf("Spend $%d and get 10%% back", 100+(i%300))
		}

		records = append(records, feed.OfferRecord{
			ID:          fmt.Sprintf("id-%d", i),
			Card:        strPtr(cards[i%len(cards)]),
			Merchant:    strPtr(merchants[i%len(merchants)]),
			OfferText:   strPtr(text),
			Description: strPtr(fmt.Sprintf("Benchmark offer %d with regular terms", i)),
			Stackable:   i%3 == 0,
			Expires:     "2026-09-30",
			Categories:  []string{categories[i%len(categories)]},
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		b.Fatalf("marshal feed payload: %v", err)
	}
	return data
}

func runPipeline(b *testing.B, data []byte) {
	b.Helper()

	records, err := feed.Parse(data)
	if err != nil {
		b.Fatalf("parse feed: %v", err)
	}

	offers := rank.Rank(records, score.DefaultWeights())
	filtered := rank.Apply(offers, rank.Options{
		Query:    "back",
		Category: "grocery",
		MinScore: 5,
		Sort:     "amount",
		Limit:    50,
	})
	if len(filtered) == 0 {
		b.Fatalf("filters removed every offer")
	}
	if err := display.PrintOffersJSON(io.Discard, filtered); err != nil {
		b.Fatalf("print offers json: %v", err)
	}
}

func BenchmarkFeedPipeline_1kOffers(b *testing.B) {
	data := benchmarkFeed(b, 1000)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		runPipeline(b, data)
	}
}

func BenchmarkSimulate(b *testing.B) {
	sim := stack.NewSimulator()
	inputs := []stack.Input{
		{CartValue: 400, PromoPercent: 20, EmailPercent: 10, CardCashFixed: 50, CardMinSpend: 250, PortalPercent: 4},
		{CartValue: 120, PromoAmount: 15, CardCashPercent: 5, CardMaxCashback: 25},
		{CartValue: 800, CardPoints: 5000, CardProgram: offer.MembershipRewards, PortalPercent: 2, PortalAmount: 10},
		{CartValue: 60, EmailAmount: 10, PromoPercent: 5},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		_ = sim.Simulate(inputs[i%len(inputs)])
	}
}
