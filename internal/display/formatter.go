package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/rank"
	"github.com/dealstackr/dealstackr/internal/score"
	"github.com/dealstackr/dealstackr/internal/stack"
)

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	stackTag     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
	amountStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
	percentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	bandStyles = map[score.Band]lipgloss.Style{
		score.BandElite:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		score.BandStrong: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		score.BandDecent: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		score.BandLow:    lipgloss.NewStyle().Faint(true),
	}
)

// OfferJSON is the JSON output shape for a ranked offer.
type OfferJSON struct {
	ID          string            `json:"id"`
	Card        string            `json:"card"`
	Merchant    string            `json:"merchant"`
	Offer       string            `json:"offer"`
	Description string            `json:"description"`
	Source      string            `json:"source"`
	Stackable   bool              `json:"stackable"`
	Expires     string            `json:"expires"`
	Categories  []string          `json:"categories"`
	Value       offer.ParsedValue `json:"value"`
	Score       int               `json:"score"`
	Band        string            `json:"band"`
}

// ScoreJSON is the JSON output shape for a single scored offer text.
type ScoreJSON struct {
	Input string            `json:"input"`
	Value offer.ParsedValue `json:"value"`
	Score score.Breakdown   `json:"score"`
}

// ProgramJSON is the JSON output shape for one points program valuation.
type ProgramJSON struct {
	Program         string  `json:"program"`
	ScreeningCents  float64 `json:"screeningCentsPerPoint"`
	RedemptionCents float64 `json:"redemptionCentsPerPoint"`
}

// PrintOffers renders a ranked offer list to the writer.
func PrintOffers(w io.Writer, offers []rank.RankedOffer) {
	fmt.Fprintf(w, "\n%s — %s\n\n",
		headerStyle.Render("DealStackr rankings"),
		cyanStyle.Render(fmt.Sprintf("%d offers", len(offers))),
	)

	for _, o := range offers {
		printOffer(w, o)
		fmt.Fprintln(w)
	}
}

// PrintOffersJSON renders ranked offers as JSON.
func PrintOffersJSON(w io.Writer, offers []rank.RankedOffer) error {
	out := make([]OfferJSON, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferJSON(o))
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintScore renders the parse and score breakdown for one offer text.
func PrintScore(w io.Writer, input string, v offer.ParsedValue, b score.Breakdown) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render(rank.CleanText(input)))

	if parts := valueParts(v); len(parts) > 0 {
		fmt.Fprintf(w, "  %s\n\n", strings.Join(parts, " | "))
	} else {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("no monetary terms recognized"))
	}

	fmt.Fprintf(w, "  %-16s %s\n", "Amount back", signedPoints(b.AbsoluteScore))
	fmt.Fprintf(w, "  %-16s %s\n", "Percent back", signedPoints(b.PercentScore))
	fmt.Fprintf(w, "  %-16s %s\n", "Spend hurdle", signedPoints(-b.SpendAdjustment))
	fmt.Fprintf(w, "  %-16s %s\n", "Stackable", signedPoints(b.StackableBonus))

	fmt.Fprintf(w, "\n  Score: %s  %s\n\n",
		bandStyle(b.Band).Render(fmt.Sprintf("%d %s", b.FinalScore, b.Band.Label())),
		dimStyle.Render(b.Band.Description()),
	)
}

// PrintScoreJSON renders a single scored offer text as JSON.
func PrintScoreJSON(w io.Writer, input string, v offer.ParsedValue, b score.Breakdown) error {
	return json.NewEncoder(w).Encode(ScoreJSON{
		Input: rank.CleanText(input),
		Value: v,
		Score: b,
	})
}

// PrintStack renders a simulated deal stack to the writer.
func PrintStack(w io.Writer, r stack.Result) {
	fmt.Fprintf(w, "\n%s\n\n", headerStyle.Render(fmt.Sprintf("Deal stack on a %s cart", money(r.CartValue))))

	for _, line := range r.Breakdown {
		note := ""
		if line.Note != "" {
			note = "  " + dimStyle.Render(line.Note)
		}
		fmt.Fprintf(w, "  %s  %-18s %10s%s\n", line.Icon, line.Label, signedMoney(line.Amount), note)
	}
	if len(r.Breakdown) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  %-22s %10s\n", "Net spend", money(r.NetSpend))
	fmt.Fprintf(w, "  %-22s %10s\n", "Total discounts", money(r.TotalDiscounts))
	fmt.Fprintf(w, "  %-22s %10s\n", "Total cashback", money(r.TotalCashback))
	fmt.Fprintf(w, "  %-22s %10s\n", "Total savings", amountStyle.Render(money(r.TotalSavings)))
	fmt.Fprintf(w, "  %-22s %10s\n", "Final effective cost", titleStyle.Render(money(r.FinalEffectiveCost)))
	fmt.Fprintf(w, "  %-22s %10s\n", "Effective discount", percentStyle.Render(fmt.Sprintf("%.1f%%", r.EffectiveDiscountPercent)))

	fmt.Fprintf(w, "\n  %s %s\n\n",
		stackTag.Render(string(r.Tier)),
		dimStyle.Render(fmt.Sprintf("(%s)", layersNoun(r.StackLayers))),
	)

	for _, warning := range r.Warnings {
		PrintWarning(w, warning)
	}
}

// PrintStackJSON renders a simulated deal stack as JSON.
func PrintStackJSON(w io.Writer, r stack.Result) error {
	return json.NewEncoder(w).Encode(r)
}

// PrintPrograms renders both points valuation tables, screening side by side
// with redemption.
func PrintPrograms(w io.Writer, screening, redemption map[offer.Program]float64) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Points programs (cents per point)"))
	fmt.Fprintf(w, "  %-22s %10s %12s\n", "Program", "Screening", "Redemption")
	for _, p := range offer.Programs() {
		fmt.Fprintf(w, "  %s %10s %12s\n",
			cyanStyle.Render(fmt.Sprintf("%-22s", string(p))),
			cents(screening[p]),
			cents(redemption[p]),
		)
	}
	fmt.Fprintln(w)
}

// PrintProgramsJSON renders both points valuation tables as JSON.
func PrintProgramsJSON(w io.Writer, screening, redemption map[offer.Program]float64) error {
	out := make([]ProgramJSON, 0, len(offer.Programs()))
	for _, p := range offer.Programs() {
		out = append(out, ProgramJSON{
			Program:         string(p),
			ScreeningCents:  screening[p],
			RedemptionCents: redemption[p],
		})
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintFeedContext prints a dim line showing which feed was auto-selected.
func PrintFeedContext(w io.Writer, source string, count int) {
	fmt.Fprintf(w, "%s\n\n",
		dimStyle.Render(fmt.Sprintf("Using feed: %s (%d offers)", source, count)),
	)
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

func printOffer(w io.Writer, o rank.RankedOffer) {
	merchant := rank.CleanText(rank.Deref(o.Record.Merchant))
	card := rank.CleanText(rank.Deref(o.Record.Card))

	// Title line
	tag := ""
	if o.Record.Stackable {
		tag = stackTag.Render("STACK") + " "
	}
	fmt.Fprintf(w, "  %s  %s%s\n", scoreBadge(o.Score), tag, titleStyle.Render(offerTitle(o)))

	// Parsed economics
	if parts := valueParts(o.Value); len(parts) > 0 {
		fmt.Fprintf(w, "       %s\n", strings.Join(parts, " | "))
	}

	// Description
	if desc := rank.CleanText(rank.Deref(o.Record.Description)); desc != "" {
		fmt.Fprintf(w, "       %s\n", dimStyle.Render(wordWrap(desc, 72, "       ")))
	}

	// Meta
	var meta []string
	if merchant != "" {
		meta = append(meta, merchant)
	}
	if card != "" {
		meta = append(meta, card)
	}
	if len(o.Record.Categories) > 0 {
		meta = append(meta, strings.Join(o.Record.Categories, ", "))
	}
	if o.Record.Expires != "" {
		meta = append(meta, "expires "+o.Record.Expires)
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "       %s\n", dimStyle.Render(strings.Join(meta, " | ")))
	}
}

// offerTitle falls back to merchant or ID so a feed row with no text still
// renders something identifiable.
func offerTitle(o rank.RankedOffer) string {
	if text := rank.CleanText(rank.Deref(o.Record.OfferText)); text != "" {
		return text
	}
	if merchant := rank.CleanText(rank.Deref(o.Record.Merchant)); merchant != "" {
		return merchant + " offer"
	}
	return "Offer " + o.Record.ID
}

func scoreBadge(b score.Breakdown) string {
	return bandStyle(b.Band).Render(fmt.Sprintf("%3d %-6s", b.FinalScore, b.Band.Label()))
}

func bandStyle(b score.Band) lipgloss.Style {
	if s, ok := bandStyles[b]; ok {
		return s
	}
	return dimStyle
}

func valueParts(v offer.ParsedValue) []string {
	var parts []string
	if v.Points != nil {
		parts = append(parts, cyanStyle.Render(fmt.Sprintf("%d %s points (~%s)",
			v.Points.Amount, v.Points.Program, money(v.Points.EstimatedValueUSD))))
	} else if v.AmountBack != nil {
		parts = append(parts, amountStyle.Render(money(*v.AmountBack)+" back"))
	}
	if v.PercentBack != nil {
		parts = append(parts, percentStyle.Render(trimPct(*v.PercentBack)+"% back"))
	}
	if v.MinSpend != nil {
		parts = append(parts, dimStyle.Render("min spend "+money(*v.MinSpend)))
	}
	return parts
}

func toOfferJSON(o rank.RankedOffer) OfferJSON {
	categories := o.Record.Categories
	if categories == nil {
		categories = []string{}
	}
	return OfferJSON{
		ID:          o.Record.ID,
		Card:        rank.CleanText(rank.Deref(o.Record.Card)),
		Merchant:    rank.CleanText(rank.Deref(o.Record.Merchant)),
		Offer:       rank.CleanText(rank.Deref(o.Record.OfferText)),
		Description: rank.CleanText(rank.Deref(o.Record.Description)),
		Source:      rank.Deref(o.Record.Source),
		Stackable:   o.Record.Stackable,
		Expires:     o.Record.Expires,
		Categories:  categories,
		Value:       o.Value,
		Score:       o.Score.FinalScore,
		Band:        string(o.Score.Band),
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func signedMoney(v float64) string {
	switch {
	case v < 0:
		return "-" + money(-v)
	case v > 0:
		return "+" + money(v)
	default:
		return money(0)
	}
}

func signedPoints(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return fmt.Sprintf("%+.2f", v)
}

func cents(v float64) string {
	return fmt.Sprintf("%.1f¢", v)
}

func trimPct(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

func layersNoun(n int) string {
	if n == 1 {
		return "1 layer"
	}
	return fmt.Sprintf("%d layers", n)
}

func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n"+indent)
}
