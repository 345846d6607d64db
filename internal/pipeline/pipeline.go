// Package pipeline runs the daily job: fetch, merge/filter, classify,
// summarize, persist, render. Execution is strictly sequential and
// single-shot; any transport or generation failure aborts the run before
// rendering, leaving prior days' site content untouched.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shinkeireview/internal/classify"
	"shinkeireview/internal/config"
	"shinkeireview/internal/core"
	"shinkeireview/internal/llm"
	"shinkeireview/internal/logger"
	"shinkeireview/internal/merge"
	"shinkeireview/internal/render"
	"shinkeireview/internal/sources"
	"shinkeireview/internal/store"
	"shinkeireview/internal/summarize"
)

// jst is the fixed timezone used to compute the current day for the run.
var jst = time.FixedZone("JST", 9*60*60)

// Pipeline wires the daily run's collaborators together.
type Pipeline struct {
	cfg      *config.Config
	tax      *config.Taxonomy
	journals []core.Journal
	fetcher  *sources.Manager
	gen      summarize.TextGenerator
	store    *store.Store
	renderer *render.Renderer

	// Now is the clock deciding which day the run belongs to.
	// Overridable in tests.
	Now func() time.Time
}

// New creates a pipeline from its collaborators.
func New(cfg *config.Config, tax *config.Taxonomy, journals []core.Journal, fetcher *sources.Manager, gen summarize.TextGenerator, st *store.Store, renderer *render.Renderer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		tax:      tax,
		journals: journals,
		fetcher:  fetcher,
		gen:      gen,
		store:    st,
		renderer: renderer,
		Now:      time.Now,
	}
}

// Run executes the full daily pipeline once.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	today := p.Now().In(jst)
	date := today.Format("2006-01-02")

	logger.Info("daily run started", "run_id", runID, "date", date)

	terms := sources.TermUnion(p.tax.Diseases)
	window := sources.Window{From: today.AddDate(0, 0, -1), To: today}

	items, err := p.fetcher.FetchAll(ctx, terms, window)
	if err != nil {
		return err
	}
	logger.Info("fetch completed", "run_id", runID, "articles", len(items))

	merged := merge.Merge(items, p.journals, p.cfg.Pipeline.MaxItemsPerDay)
	logger.Info("merge completed", "run_id", runID, "survivors", len(merged))

	for i := range merged {
		merged[i].Disease = classify.Disease(merged[i].Title, merged[i].Abstract, p.tax.Diseases)
		merged[i].Section = classify.Section(merged[i].Title, merged[i].Abstract, p.tax.Sections)
	}

	cache, err := p.store.LoadCache()
	if err != nil {
		return err
	}
	summarizer := summarize.New(p.gen, cache, summarize.Options{
		SkipSummaries: p.cfg.Pipeline.SkipSummary,
	})
	daily, err := summarizer.Summarize(ctx, merged)
	if err != nil {
		return err
	}
	if err := p.store.SaveCache(cache); err != nil {
		return err
	}

	if err := p.store.SaveDaily(core.DailyRecord{Date: date, Items: daily}); err != nil {
		return err
	}

	for _, d := range p.tax.Diseases {
		var todays []core.Article
		for _, it := range daily {
			if it.Disease == d.ID {
				todays = append(todays, it)
			}
		}
		if err := p.store.PrependDiseaseItems(d.ID, todays); err != nil {
			return err
		}
	}

	if err := p.updateNarratives(ctx, daily); err != nil {
		return err
	}

	if err := p.renderer.BuildSite(date); err != nil {
		return err
	}

	logger.Info("daily run finished", "run_id", runID, "date", date, "items", len(daily))
	return nil
}

// updateNarratives asks the text-generation service to minimally revise
// each disease's narrative section text given the day's new summaries. A
// disease×section pair with no new summaries is left untouched; an empty
// response leaves the existing text unchanged.
func (p *Pipeline) updateNarratives(ctx context.Context, daily []core.Article) error {
	for _, d := range p.tax.Diseases {
		text, err := p.store.LoadDiseaseText(d.ID)
		if err != nil {
			return err
		}

		for _, s := range p.tax.Sections {
			bullets := narrativeBullets(daily, d.ID, s.ID)
			if bullets == "" {
				continue
			}

			current := text.Sections[s.ID]
			updated, err := p.gen.Generate(ctx, llm.BuildNarrativePrompt(current, bullets))
			if err != nil {
				return fmt.Errorf("narrative revision for %s/%s failed: %w", d.ID, s.ID, err)
			}
			if updated = strings.TrimSpace(updated); updated != "" {
				text.Sections[s.ID] = updated
			}
		}

		if err := p.store.SaveDiseaseText(text); err != nil {
			return err
		}
	}
	return nil
}

// narrativeBullets renders the day's summaries for one disease×section
// pair as a bullet list, preferring the short summary. Empty when the pair
// has no summarized articles.
func narrativeBullets(daily []core.Article, diseaseID, sectionID string) string {
	var lines []string
	for _, it := range daily {
		if it.Disease != diseaseID || it.Section != sectionID {
			continue
		}
		summary := it.SummaryShortJA
		if summary == "" {
			summary = it.SummaryJA
		}
		if summary == "" {
			continue
		}
		lines = append(lines, "- "+summary)
	}
	return strings.Join(lines, "\n")
}
