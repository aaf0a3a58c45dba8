package query

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Brand is the slice of the catalog the disambiguator needs.
type Brand struct {
	NameEn string
	NameAr string
	Slug   string
}

// Model is a model name scoped to an already-matched brand.
type Model struct {
	NameEn string
}

// Filter is the structured result of disambiguating a free-text query.
// Brand holds the matched brand's slug; Model and Variant hold partial-match
// strings. Unset fields are empty.
type Filter struct {
	Brand   string `json:"brand,omitempty"`
	Model   string `json:"model,omitempty"`
	Variant string `json:"variant,omitempty"`
}

// minTokenLen guards against false matches on short tokens like "A3" or "GT".
const minTokenLen = 3

// Disambiguate splits a free-text query into brand/model/variant filters.
// modelsFor is called at most once, with the matched brand, to load its
// models. It never fails; on ambiguity the whole query falls back to a
// model-name search.
func Disambiguate(q string, brands []Brand, modelsFor func(Brand) []Model) Filter {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return Filter{}
	}

	brand, remainder, ok := MatchBrand(trimmed, brands)
	if !ok {
		return Filter{Model: trimmed}
	}

	f := Filter{Brand: brand.Slug}
	if remainder == "" {
		return f
	}

	var models []Model
	if modelsFor != nil {
		models = modelsFor(brand)
	}
	f.Model, f.Variant = ResolveRemainder(remainder, models)
	return f
}

// MatchBrand finds the brand a query refers to and returns the query
// remainder with the matched phrase removed. Longer brand names take
// precedence over shorter ones that prefix them ("Land Rover" over "Land").
func MatchBrand(q string, brands []Brand) (Brand, string, bool) {
	trimmed := strings.TrimSpace(q)
	lower := strings.ToLower(trimmed)
	if lower == "" {
		return Brand{}, "", false
	}

	sorted := make([]Brand, len(brands))
	copy(sorted, brands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].NameEn) > len(sorted[j].NameEn)
	})

	// Containment: the query contains the brand's full name or slug.
	for _, b := range sorted {
		if phrase := containedPhrase(lower, b); phrase != "" {
			return b, removePhrase(trimmed, phrase), true
		}
	}

	// Prefix: the brand name or slug starts with the full query.
	for _, b := range sorted {
		if strings.HasPrefix(strings.ToLower(b.NameEn), lower) ||
			strings.HasPrefix(strings.ToLower(b.Slug), lower) {
			return b, "", true
		}
	}

	// Token: the first query token of useful length that prefixes a brand.
	for _, token := range strings.Fields(lower) {
		if len(token) < minTokenLen {
			continue
		}
		for _, b := range sorted {
			if strings.HasPrefix(strings.ToLower(b.NameEn), token) ||
				strings.HasPrefix(strings.ToLower(b.Slug), token) {
				return b, removePhrase(trimmed, token), true
			}
		}
	}

	return Brand{}, "", false
}

// ResolveRemainder splits what is left after brand removal into model and
// variant filters. The longest model name contained in the remainder wins;
// with no model match the remainder becomes the model filter verbatim.
func ResolveRemainder(remainder string, models []Model) (string, string) {
	remainder = strings.TrimSpace(remainder)
	if remainder == "" {
		return "", ""
	}

	sorted := make([]Model, len(models))
	copy(sorted, models)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].NameEn) > len(sorted[j].NameEn)
	})

	lower := strings.ToLower(remainder)
	for _, m := range sorted {
		name := strings.ToLower(m.NameEn)
		if name == "" || !strings.Contains(lower, name) {
			continue
		}
		variant := removePhrase(remainder, m.NameEn)
		return m.NameEn, variant
	}

	return remainder, ""
}

// containedPhrase returns the brand phrase found inside the lowercased
// query: full English name first, then Arabic name, then slug. Matching is
// plain substring containment; removal is the word-boundary-aware part.
func containedPhrase(lowerQuery string, b Brand) string {
	if name := strings.ToLower(b.NameEn); name != "" && strings.Contains(lowerQuery, name) {
		return b.NameEn
	}
	if b.NameAr != "" && strings.Contains(lowerQuery, strings.ToLower(b.NameAr)) {
		return b.NameAr
	}
	if slug := strings.ToLower(b.Slug); slug != "" && strings.Contains(lowerQuery, slug) {
		return b.Slug
	}
	return ""
}

// removePhrase deletes the first word-boundary occurrence of phrase from s
// (case-insensitive) and collapses the surrounding whitespace.
func removePhrase(s, phrase string) string {
	lowerS := strings.ToLower(s)
	lowerP := strings.ToLower(phrase)
	if lowerP == "" || len(lowerS) != len(s) {
		// Lowercasing changed byte offsets; bail out rather than cut
		// at the wrong position.
		return collapseSpaces(s)
	}

	idx := strings.Index(lowerS, lowerP)
	for idx >= 0 {
		if boundaryBefore(lowerS, idx) && boundaryAfter(lowerS, idx+len(lowerP)) {
			return collapseSpaces(s[:idx] + " " + s[idx+len(lowerP):])
		}
		next := strings.Index(lowerS[idx+1:], lowerP)
		if next < 0 {
			break
		}
		idx += 1 + next
	}
	return collapseSpaces(s)
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[idx:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
