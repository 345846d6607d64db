package summarize

import (
	"context"
	"strings"

	"shinkeireview/internal/core"
	"shinkeireview/internal/llm"
	"shinkeireview/internal/logger"
	"shinkeireview/internal/store"
)

// TextGenerator is the single operation the summarizer needs from the
// text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options configures the summarizer.
type Options struct {
	// SkipSummaries disables all generation calls; articles come back with
	// whatever the cache already held.
	SkipSummaries bool
}

// Summarizer produces the two Japanese summary lengths for each article,
// consulting and updating the disk-backed cache so repeated runs do not
// re-summarize unchanged articles.
type Summarizer struct {
	gen   TextGenerator
	cache *store.SummaryCache
	opts  Options
}

// New creates a summarizer over a generator and a loaded cache. The caller
// owns persisting the cache after the phase completes.
func New(gen TextGenerator, cache *store.SummaryCache, opts Options) *Summarizer {
	return &Summarizer{gen: gen, cache: cache, opts: opts}
}

// Summarize augments every article with SummaryJA and SummaryShortJA.
// Cached values are reused verbatim; the two lengths are looked up and
// generated independently. Either may remain empty when the article has no
// abstract or summarization is skipped. A generator failure aborts the
// whole batch.
func (s *Summarizer) Summarize(ctx context.Context, articles []core.Article) ([]core.Article, error) {
	out := make([]core.Article, 0, len(articles))
	for _, a := range articles {
		key := a.CacheKey()
		cached := s.cache.Get(key)

		long := cached.SummaryJA
		short := cached.SummaryShortJA

		var err error
		if long == "" {
			long, err = s.generate(ctx, llm.BuildSummaryPrompt(a.Title, a.Abstract), a.Abstract)
			if err != nil {
				return nil, err
			}
		}
		if short == "" {
			short, err = s.generate(ctx, llm.BuildShortSummaryPrompt(a.Title, a.Abstract), a.Abstract)
			if err != nil {
				return nil, err
			}
		}

		if long != "" || short != "" {
			s.cache.Set(key, store.CacheEntry{SummaryJA: long, SummaryShortJA: short})
		}

		a.SummaryJA = long
		a.SummaryShortJA = short
		out = append(out, a)
	}

	logger.Info("summarization completed", "articles", len(out), "cache_entries", s.cache.Len())
	return out, nil
}

// generate runs one generation call unless the skip flag is set or the
// article has no abstract, in which case the summary stays empty.
func (s *Summarizer) generate(ctx context.Context, prompt, abstract string) (string, error) {
	if s.opts.SkipSummaries || abstract == "" {
		return "", nil
	}
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
