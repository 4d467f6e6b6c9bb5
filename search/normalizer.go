package search

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Canonical sort identifiers accepted by the activities endpoint.
const (
	SortPriceLowToHigh = "price-low-to-high"
	SortPriceHighToLow = "price-high-to-low"
	SortBestSelling    = "best-selling"
	SortTopReviewed    = "top-reviewed"
)

// SortMatchThreshold is the minimum similarity (1 - distance/maxLen)
// required before a sort phrase is accepted. Raising it rejects more
// near-miss phrasing; lowering it risks mapping unrelated text onto a
// sort key.
const SortMatchThreshold = 0.55

// sortPhrasings maps each canonical identifier to natural-language
// renderings users and the model actually produce. Matching is still
// fuzzy over these, not exact lookup: edit distance against the bare
// identifiers alone ranks "cheapest" closer to "best-selling" than to
// "price-low-to-high" because of the shared "est" suffix.
var sortPhrasings = []struct {
	canonical string
	phrases   []string
}{
	{SortPriceLowToHigh, []string{"price low to high", "lowest price", "cheapest", "price ascending"}},
	{SortPriceHighToLow, []string{"price high to low", "highest price", "most expensive", "price descending"}},
	{SortBestSelling, []string{"best selling", "bestsellers", "most popular"}},
	{SortTopReviewed, []string{"top reviewed", "best reviewed", "top rated", "highest rated"}},
}

// NormalizeSort maps a free-text sort preference to a canonical sort
// identifier. The second return is false when nothing scores above the
// threshold; callers must treat that as "omit the sort filter", never
// as an error.
func NormalizeSort(input string) (string, bool) {
	folded := foldSortInput(input)
	if folded == "" {
		return "", false
	}

	best := ""
	bestScore := 0.0

	for _, entry := range sortPhrasings {
		candidates := append([]string{entry.canonical}, entry.phrases...)
		for _, candidate := range candidates {
			score := similarity(folded, foldSortInput(candidate))
			if score > bestScore {
				best = entry.canonical
				bestScore = score
			}
		}
	}

	if bestScore < SortMatchThreshold {
		return "", false
	}

	return best, true
}

// foldSortInput lowercases and collapses every non-alphanumeric run to
// a single space, so "Price_Low-To-High" and "price low to high"
// compare equal.
func foldSortInput(s string) string {
	var b strings.Builder
	lastSpace := true

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)

	return 1 - float64(dist)/float64(longest)
}
