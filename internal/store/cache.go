package store

import "encoding/json"

// CacheEntry holds the two summary lengths for one article.
type CacheEntry struct {
	SummaryJA      string `json:"summary_ja"`
	SummaryShortJA string `json:"summary_short_ja"`
}

// UnmarshalJSON accepts both the current object form and the legacy bare
// string form, which predates the two-length format and is read as
// {summary_ja: s, summary_short_ja: ""}.
func (e *CacheEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		e.SummaryJA = s
		e.SummaryShortJA = ""
		return nil
	}

	type entryAlias CacheEntry
	var a entryAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = CacheEntry(a)
	return nil
}

// SummaryCache is the flat disk-backed mapping from cache key to summary
// pair. Append-only in practice: entries grow without eviction, and a
// non-empty cached value is never overwritten within a run.
type SummaryCache struct {
	entries map[string]CacheEntry
}

// NewSummaryCache creates an empty cache.
func NewSummaryCache() *SummaryCache {
	return &SummaryCache{entries: make(map[string]CacheEntry)}
}

// Get returns the entry for a key; a missing key yields a zero entry.
func (c *SummaryCache) Get(key string) CacheEntry {
	return c.entries[key]
}

// Set stores an entry for a key.
func (c *SummaryCache) Set(key string, entry CacheEntry) {
	c.entries[key] = entry
}

// Len returns the number of cached entries.
func (c *SummaryCache) Len() int {
	return len(c.entries)
}

// CompleteCount returns how many entries carry both summary lengths.
func (c *SummaryCache) CompleteCount() int {
	n := 0
	for _, e := range c.entries {
		if e.SummaryJA != "" && e.SummaryShortJA != "" {
			n++
		}
	}
	return n
}

// MarshalJSON writes the cache as a flat key → entry object.
func (c *SummaryCache) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.entries)
}

// UnmarshalJSON reads a flat key → entry object, tolerating legacy
// bare-string values.
func (c *SummaryCache) UnmarshalJSON(data []byte) error {
	entries := make(map[string]CacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	c.entries = entries
	return nil
}
