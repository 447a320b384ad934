package rank

import "strings"

var categorySynonyms = map[string][]string{
	"dining":    {"restaurant", "restaurants", "food", "takeout", "delivery"},
	"travel":    {"flights", "airfare", "hotel", "hotels", "airline", "airlines"},
	"grocery":   {"groceries", "supermarket", "supermarkets", "wholesale club"},
	"gas":       {"fuel", "gas station", "gas stations"},
	"retail":    {"shopping", "department store", "online shopping"},
	"streaming": {"subscription", "subscriptions", "entertainment"},
	"drugstore": {"pharmacy", "pharmacies"},
}

type categoryMatcher struct {
	exactAliases []string
	normalized   map[string]struct{}
}

func newCategoryMatcher(wanted string) categoryMatcher {
	aliases := categoryAliasList(wanted)
	if len(aliases) == 0 {
		return categoryMatcher{}
	}

	normalized := make(map[string]struct{}, len(aliases))
	for _, alias := range aliases {
		normalized[normalizeCategory(alias)] = struct{}{}
	}

	return categoryMatcher{
		exactAliases: aliases,
		normalized:   normalized,
	}
}

func categoryAliasList(wanted string) []string {
	raw := strings.TrimSpace(wanted)
	group := resolveCategoryGroup(wanted)
	if raw == "" && group == "" {
		return nil
	}

	out := make([]string, 0, 1+len(categorySynonyms[group]))
	addAlias := func(alias string) {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			return
		}
		for _, existing := range out {
			if strings.EqualFold(existing, alias) {
				return
			}
		}
		out = append(out, alias)
	}

	addAlias(raw)
	addAlias(group)

	if synonyms, ok := categorySynonyms[group]; ok {
		out = append(out, synonyms...)
	}
	return out
}

func resolveCategoryGroup(wanted string) string {
	norm := normalizeCategory(wanted)
	if norm == "" {
		return ""
	}

	if _, ok := categorySynonyms[norm]; ok {
		return norm
	}
	for key, synonyms := range categorySynonyms {
		for _, s := range synonyms {
			if normalizeCategory(s) == norm {
				return key
			}
		}
	}
	return norm
}

func (m categoryMatcher) active() bool {
	return len(m.exactAliases) > 0
}

func (m categoryMatcher) matchesAny(categories []string) bool {
	for _, c := range categories {
		if m.matches(c) {
			return true
		}
	}
	return false
}

func (m categoryMatcher) matches(category string) bool {
	trimmed := strings.TrimSpace(category)
	for _, alias := range m.exactAliases {
		if strings.EqualFold(trimmed, alias) {
			return true
		}
	}

	// Normalization only helps when separators or plurals are in play.
	if !strings.ContainsAny(trimmed, "-_ ") && !strings.HasSuffix(trimmed, "s") {
		return false
	}

	norm := normalizeCategory(trimmed)
	_, ok := m.normalized[norm]
	return ok
}

func normalizeCategory(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.Join(strings.Fields(s), " ")
	switch {
	case len(s) > 4 && strings.HasSuffix(s, "ies"):
		s = strings.TrimSuffix(s, "ies") + "y"
	case len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		s = strings.TrimSuffix(s, "s")
	}
	return s
}
