// Package classify assigns each article exactly one disease id and one
// clinical-section id by ordered keyword containment over title+abstract.
package classify

import (
	"strings"

	"shinkeireview/internal/core"
)

const (
	// DefaultDisease is assigned when no configured disease term matches.
	DefaultDisease = "other"
	// DefaultSection is assigned when no configured section keyword matches.
	DefaultSection = "treatment"
)

// Disease returns the id of the first configured disease whose term occurs
// in the article text, or DefaultDisease. Earlier-configured diseases win
// ties.
func Disease(title, abstract string, diseases []core.Disease) string {
	text := haystack(title, abstract)
	for _, d := range diseases {
		for _, term := range d.Terms {
			if strings.Contains(text, strings.ToLower(term)) {
				return d.ID
			}
		}
	}
	return DefaultDisease
}

// Section returns the id of the first configured section whose keyword
// occurs in the article text, or DefaultSection.
func Section(title, abstract string, sections []core.Section) string {
	text := haystack(title, abstract)
	for _, s := range sections {
		for _, kw := range s.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return s.ID
			}
		}
	}
	return DefaultSection
}

func haystack(title, abstract string) string {
	return strings.ToLower(title + " " + abstract)
}
