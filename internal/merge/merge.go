package merge

import (
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"shinkeireview/internal/core"
)

// oldestDate is where unparsable publication dates sort: behind everything.
var oldestDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Merge deduplicates articles across providers, drops articles whose journal
// is not on the allow-list, sorts by publication date descending and
// truncates to max.
//
// Deduplication is first-seen wins in input order: a later duplicate is
// dropped silently even when it comes from a different provider, never
// merged field by field. The duplicate check runs before the allow-list
// check.
func Merge(items []core.Article, journals []core.Journal, max int) []core.Article {
	seen := make(map[string]bool)
	var merged []core.Article
	for _, it := range items {
		key := it.DedupKey()
		if seen[key] {
			continue
		}
		if !Whitelisted(it.Journal, journals) {
			continue
		}
		seen[key] = true
		merged = append(merged, it)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return pubTime(merged[i]).After(pubTime(merged[j]))
	})

	if max > 0 && len(merged) > max {
		merged = merged[:max]
	}
	return merged
}

// Whitelisted reports whether the journal matches an allow-list entry's
// canonical name or alias. Matching is exact, case-insensitive and trimmed;
// an empty journal name is never whitelisted.
func Whitelisted(journal string, journals []core.Journal) bool {
	j := strings.ToLower(strings.TrimSpace(journal))
	if j == "" {
		return false
	}
	for _, entry := range journals {
		if j == strings.ToLower(strings.TrimSpace(entry.Name)) {
			return true
		}
		for _, alias := range entry.Aliases {
			if j == strings.ToLower(strings.TrimSpace(alias)) {
				return true
			}
		}
	}
	return false
}

// pubTime parses the best-known publication date, falling back to the bare
// year and finally to the oldest possible date on parse failure.
func pubTime(a core.Article) time.Time {
	raw := a.Published
	if raw == "" {
		raw = a.Year
	}
	if raw == "" {
		return oldestDate
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return oldestDate
	}
	return t
}
