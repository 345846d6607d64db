package core

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeTitle lowercases a title and collapses every run of
// non-alphanumeric characters into a single space.
func NormalizeTitle(title string) string {
	if title == "" {
		return ""
	}
	t := nonAlnum.ReplaceAllString(strings.ToLower(title), " ")
	return strings.TrimSpace(t)
}

// DedupKey computes the identity used to collapse duplicate articles across
// providers: DOI if present, else PMID, else the normalized title. An article
// with none of the three yields "title:" with an empty remainder; all such
// articles collide and only the first survives.
func (a Article) DedupKey() string {
	if a.DOI != "" {
		return "doi:" + strings.TrimSpace(strings.ToLower(a.DOI))
	}
	if a.PMID != "" {
		return "pmid:" + strings.TrimSpace(a.PMID)
	}
	return "title:" + NormalizeTitle(a.Title)
}

// CacheKey computes the summary-cache key: DOI if present, else PMID, else
// the raw title. Unlike DedupKey the value is used as-is, so a title-keyed
// entry will not match a differently-capitalized title in a later run.
// Existing cache files were written with raw keys; normalizing here would
// orphan them.
func (a Article) CacheKey() string {
	if a.DOI != "" {
		return a.DOI
	}
	if a.PMID != "" {
		return a.PMID
	}
	return a.Title
}
