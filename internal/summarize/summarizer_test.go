package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shinkeireview/internal/core"
	"shinkeireview/internal/store"
)

// mockGenerator implements TextGenerator for testing.
type mockGenerator struct {
	response   string
	callCount  int
	shouldFail bool
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	if m.shouldFail {
		return "", errors.New("mock generator error")
	}
	if m.response != "" {
		return m.response, nil
	}
	if strings.Contains(prompt, "約300字") {
		return "長い要約です。", nil
	}
	return "短い要約です。", nil
}

func TestSummarizeGeneratesBothLengths(t *testing.T) {
	gen := &mockGenerator{}
	cache := store.NewSummaryCache()
	s := New(gen, cache, Options{})

	articles := []core.Article{{DOI: "10.1/a", Title: "T", Abstract: "Some abstract."}}
	out, err := s.Summarize(context.Background(), articles)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if gen.callCount != 2 {
		t.Errorf("expected 2 generation calls, got %d", gen.callCount)
	}
	if out[0].SummaryJA != "長い要約です。" || out[0].SummaryShortJA != "短い要約です。" {
		t.Errorf("summaries not assigned: %+v", out[0])
	}

	entry := cache.Get("10.1/a")
	if entry.SummaryJA == "" || entry.SummaryShortJA == "" {
		t.Errorf("fresh summaries not written to cache: %+v", entry)
	}
}

func TestSummarizeCacheRoundTrip(t *testing.T) {
	cache := store.NewSummaryCache()
	article := core.Article{DOI: "10.1/a", Title: "T", Abstract: "Some abstract."}

	// First run: generator responds.
	first := &mockGenerator{response: "固定の要約"}
	if _, err := New(first, cache, Options{}).Summarize(context.Background(), []core.Article{article}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.callCount != 2 {
		t.Fatalf("expected 2 calls on first run, got %d", first.callCount)
	}

	// Second run over the same cache: no generator invocation, cached
	// response reused verbatim.
	second := &mockGenerator{shouldFail: true}
	out, err := New(second, cache, Options{}).Summarize(context.Background(), []core.Article{article})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.callCount != 0 {
		t.Errorf("expected no calls on second run, got %d", second.callCount)
	}
	if out[0].SummaryJA != "固定の要約" || out[0].SummaryShortJA != "固定の要約" {
		t.Errorf("cached summaries not reused verbatim: %+v", out[0])
	}
}

func TestSummarizeLegacyCacheEntry(t *testing.T) {
	cache := store.NewSummaryCache()
	// Legacy entries carry only the long summary; the short one is
	// generated fresh.
	cache.Set("10.1/a", store.CacheEntry{SummaryJA: "既存の長い要約"})

	gen := &mockGenerator{response: "新しい短い要約"}
	out, err := New(gen, cache, Options{}).Summarize(context.Background(), []core.Article{
		{DOI: "10.1/a", Title: "T", Abstract: "Some abstract."},
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if gen.callCount != 1 {
		t.Errorf("expected 1 call for the missing short summary, got %d", gen.callCount)
	}
	if out[0].SummaryJA != "既存の長い要約" {
		t.Errorf("cached long summary must not be overwritten: %q", out[0].SummaryJA)
	}
	if out[0].SummaryShortJA != "新しい短い要約" {
		t.Errorf("short summary not generated: %q", out[0].SummaryShortJA)
	}

	entry := cache.Get("10.1/a")
	if entry.SummaryJA != "既存の長い要約" || entry.SummaryShortJA != "新しい短い要約" {
		t.Errorf("cache not updated alongside the existing value: %+v", entry)
	}
}

func TestSummarizeSkipsWithoutAbstract(t *testing.T) {
	gen := &mockGenerator{}
	out, err := New(gen, store.NewSummaryCache(), Options{}).Summarize(context.Background(), []core.Article{
		{DOI: "10.1/a", Title: "No abstract here"},
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if gen.callCount != 0 {
		t.Errorf("abstract-less article must not trigger generation, got %d calls", gen.callCount)
	}
	if out[0].SummaryJA != "" || out[0].SummaryShortJA != "" {
		t.Errorf("expected empty summaries: %+v", out[0])
	}
}

func TestSummarizeSkipFlag(t *testing.T) {
	gen := &mockGenerator{}
	out, err := New(gen, store.NewSummaryCache(), Options{SkipSummaries: true}).Summarize(context.Background(), []core.Article{
		{DOI: "10.1/a", Title: "T", Abstract: "Some abstract."},
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if gen.callCount != 0 {
		t.Errorf("skip flag must suppress generation, got %d calls", gen.callCount)
	}
	if out[0].SummaryJA != "" {
		t.Errorf("expected empty summary under skip flag: %+v", out[0])
	}
}

func TestSummarizeGeneratorFailureAborts(t *testing.T) {
	gen := &mockGenerator{shouldFail: true}
	_, err := New(gen, store.NewSummaryCache(), Options{}).Summarize(context.Background(), []core.Article{
		{DOI: "10.1/a", Title: "T", Abstract: "Some abstract."},
	})
	if err == nil {
		t.Fatal("expected generator failure to propagate")
	}
}

func TestSummarizeTitleKeyedCacheIsCaseSensitive(t *testing.T) {
	cache := store.NewSummaryCache()
	cache.Set("Exact Title", store.CacheEntry{SummaryJA: "cached", SummaryShortJA: "cached"})

	gen := &mockGenerator{response: "generated"}
	out, err := New(gen, cache, Options{}).Summarize(context.Background(), []core.Article{
		{Title: "exact title", Abstract: "Some abstract."},
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	// Raw title keys do not match across capitalization; both lengths are
	// regenerated.
	if gen.callCount != 2 {
		t.Errorf("expected 2 calls for the case-variant title, got %d", gen.callCount)
	}
	if out[0].SummaryJA != "generated" {
		t.Errorf("expected fresh summary: %q", out[0].SummaryJA)
	}
}
