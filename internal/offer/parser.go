package offer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Pattern lists are ordered and the first hit in each list wins. Points run
// before dollar extraction so "10,000 points" is never read as a dollar
// figure, and a points hit suppresses dollar extraction for the whole string.
var (
	pointsPatterns = []*regexp.Regexp{
		// [earn] <amount> <program> points|miles
		regexp.MustCompile(`(?:\b(?:earn|get)\s+)?([\d,]+)\s+([a-z][a-z ]*?)\s+(?:points|miles)\b`),
		// earn <amount> points
		regexp.MustCompile(`\bearn\s+([\d,]+)\s+points\b`),
		// <amount> points [back]
		regexp.MustCompile(`\b([\d,]+)\s+points(?:\s+back)?\b`),
	}

	reDollarKeyword = regexp.MustCompile(`\$([\d,]+(?:\.\d{1,2})?)(?:\s+(?:cash|statement|bonus|in))*\s*(?:back|off|credit)\b`)
	reDollarBare    = regexp.MustCompile(`\$([\d,]+(?:\.\d{1,2})?)`)

	rePercent = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)

	minSpendPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bon\s+\$([\d,]+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`\$([\d,]+(?:\.\d{1,2})?)\+?\s+(?:spend|purchases?|minimum)\b`),
		regexp.MustCompile(`\bspend\s+\$([\d,]+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`\bminimum\s+(?:of\s+)?\$([\d,]+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`\$?([\d,]+(?:\.\d{1,2})?)\s+or\s+more\b`),
	}
)

// Points matches below this are treated as false positives ("$350 or more"
// must never become 350 points).
const minPointsAmount = 100

var programAliases = []struct {
	alias   string
	program Program
}{
	{"membership rewards", MembershipRewards},
	{"ultimate rewards", UltimateRewards},
	{"thankyou", ThankYouPoints},
	{"thank you", ThankYouPoints},
	{"venture", VentureMiles},
}

// Parser extracts monetary terms from free-form offer text. NewParser applies
// the default point valuation; callers with a tuned table set their own.
type Parser struct {
	PointValue map[Program]float64 // cents per point
}

// NewParser returns a parser with the default point valuation.
func NewParser() *Parser {
	return &Parser{PointValue: DefaultPointValue()}
}

var defaultParser = NewParser()

// Parse runs the default parser. Safe for concurrent use.
func Parse(text string) ParsedValue {
	return defaultParser.Parse(text)
}

// Parse reads one offer string. It never fails: text with no recognizable
// pattern yields all-nil fields.
func (p *Parser) Parse(text string) ParsedValue {
	var v ParsedValue

	t := normalize(text)
	if t == "" {
		return v
	}

	if pts, ok := p.findPoints(t); ok {
		value := round2(float64(pts.Amount) * p.centsPerPoint(pts.Program) / 100)
		pts.EstimatedValueUSD = value
		v.Points = &pts
		v.AmountBack = &value
	} else if amount, ok := findDollar(t); ok {
		v.AmountBack = &amount
	}

	if pct, ok := findPercent(t); ok {
		v.PercentBack = &pct
	}
	if spend, ok := findMinSpend(t); ok {
		v.MinSpend = &spend
	}

	derive(&v)
	return v
}

func (p *Parser) findPoints(text string) (PointsInfo, bool) {
	for _, re := range pointsPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, err := parseAmount(m[1])
		if err != nil || amount < minPointsAmount {
			continue
		}
		info := PointsInfo{Amount: int(amount), Program: GenericPoints}
		if len(m) > 2 {
			info.Program = matchProgram(m[2])
		}
		return info, true
	}
	return PointsInfo{}, false
}

func (p *Parser) centsPerPoint(program Program) float64 {
	if cpp, ok := p.PointValue[program]; ok {
		return cpp
	}
	if cpp, ok := p.PointValue[GenericPoints]; ok {
		return cpp
	}
	return 1.0
}

func matchProgram(raw string) Program {
	name := strings.TrimSpace(raw)
	for _, entry := range programAliases {
		if strings.Contains(name, entry.alias) {
			return entry.program
		}
	}
	return GenericPoints
}

// findDollar prefers an amount with a payout keyword; a bare $N counts only
// when it is not the figure of a minimum-spend phrase, so that "5% back on
// $200+" leaves the amount to cross-derivation instead of reading $200.
func findDollar(text string) (float64, bool) {
	if m := reDollarKeyword.FindStringSubmatch(text); m != nil {
		if amount, err := parseAmount(m[1]); err == nil {
			return amount, true
		}
	}
	for _, loc := range reDollarBare.FindAllStringSubmatchIndex(text, -1) {
		if spendContext(text, loc[0], loc[1]) {
			continue
		}
		if amount, err := parseAmount(text[loc[2]:loc[3]]); err == nil {
			return amount, true
		}
	}
	return 0, false
}

func spendContext(text string, start, end int) bool {
	before := text[:start]
	for _, marker := range []string{"on ", "spend ", "of "} {
		if strings.HasSuffix(before, marker) {
			return true
		}
	}
	rest := text[end:]
	if strings.HasPrefix(rest, "+") {
		return true
	}
	rest = strings.TrimLeft(rest, " ")
	for _, marker := range []string{"or more", "spend", "purchase", "minimum", "min"} {
		if strings.HasPrefix(rest, marker) {
			return true
		}
	}
	return false
}

func findPercent(text string) (float64, bool) {
	m := rePercent.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

func findMinSpend(text string) (float64, bool) {
	for _, re := range minSpendPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if spend, err := parseAmount(m[1]); err == nil {
			return spend, true
		}
	}
	return 0, false
}

// derive fills exactly one missing side per call; a directly parsed amount
// takes priority over recomputing it from percent.
func derive(v *ParsedValue) {
	switch {
	case v.AmountBack == nil && v.PercentBack != nil && v.MinSpend != nil:
		amount := round2(*v.PercentBack / 100 * *v.MinSpend)
		v.AmountBack = &amount
	case v.PercentBack == nil && v.AmountBack != nil && v.MinSpend != nil && *v.MinSpend > 0:
		pct := round2(*v.AmountBack / *v.MinSpend * 100)
		v.PercentBack = &pct
	}
}

var glyphReplacer = strings.NewReplacer("™", "", "®", "", "℠", "")

func normalize(text string) string {
	t := strings.ToLower(glyphReplacer.Replace(text))
	return strings.Join(strings.Fields(t), " ")
}

// parseAmount strips thousands separators before parsing ("10,000" → 10000).
func parseAmount(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
