package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"shinkeireview/internal/core"
	"shinkeireview/internal/logger"
)

// Window is the publication-date range requested from a provider.
type Window struct {
	From time.Time
	To   time.Time
}

// Provider fetches recent literature for a term vocabulary from one
// upstream search API.
type Provider interface {
	// Name returns the provider's short name, used as Article.Source.
	Name() string
	// Fetch returns the provider's articles for the given terms and window.
	Fetch(ctx context.Context, terms []string, window Window) ([]core.Article, error)
}

// Manager queries registered providers sequentially and concatenates their
// results in registration order. A failure from any provider aborts the
// whole fetch: the daily run has no partial-success mode.
type Manager struct {
	providers []Provider
}

// NewManager creates a manager over the given providers. Registration order
// decides which provider's record survives deduplication downstream.
func NewManager(providers ...Provider) *Manager {
	return &Manager{providers: providers}
}

// FetchAll runs every provider in order and returns all articles.
func (m *Manager) FetchAll(ctx context.Context, terms []string, window Window) ([]core.Article, error) {
	var items []core.Article
	for _, p := range m.providers {
		results, err := p.Fetch(ctx, terms, window)
		if err != nil {
			return nil, fmt.Errorf("provider %s failed: %w", p.Name(), err)
		}
		logger.Info("provider fetch completed", "provider", p.Name(), "results", len(results))
		items = append(items, results...)
	}
	return items, nil
}

// quoteTerms renders terms as a boolean-OR clause: ("a" OR "b" OR "c").
func quoteTerms(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+t+`"`)
	}
	return "(" + strings.Join(quoted, " OR ") + ")"
}

// TermUnion returns the sorted set of all matching terms across diseases.
func TermUnion(diseases []core.Disease) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, d := range diseases {
		for _, t := range d.Terms {
			if seen[t] {
				continue
			}
			seen[t] = true
			terms = append(terms, t)
		}
	}
	sort.Strings(terms)
	return terms
}
