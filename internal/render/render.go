// Package render builds the static HTML site from persisted JSON and
// configuration. It performs no network calls.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shinkeireview/internal/classify"
	"shinkeireview/internal/config"
	"shinkeireview/internal/core"
	"shinkeireview/internal/logger"
	"shinkeireview/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/style.css
var styleCSS []byte

var jst = time.FixedZone("JST", 9*60*60)

var pageFiles = []string{
	"home.html",
	"daily_index.html",
	"diseases_index.html",
	"daily.html",
	"disease.html",
}

// Renderer writes the static site: home, daily index, disease index, one
// page per date and one page per disease.
type Renderer struct {
	outDir      string
	recentDates int
	tax         *config.Taxonomy
	store       *store.Store
	templates   map[string]*template.Template

	// Now is the clock used for the generated-at footer. Overridable in
	// tests.
	Now func() time.Time
}

// New creates a renderer writing into outDir. recentDates limits how many
// dates the home page lists.
func New(outDir string, recentDates int, tax *config.Taxonomy, st *store.Store) (*Renderer, error) {
	templates := make(map[string]*template.Template)
	for _, page := range pageFiles {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{
		outDir:      outDir,
		recentDates: recentDates,
		tax:         tax,
		store:       st,
		templates:   templates,
		Now:         time.Now,
	}, nil
}

type layoutData struct {
	Title     string
	Generated string
}

type diseaseCard struct {
	ID     string
	NameJA string
	NameEN string
}

type homeData struct {
	layoutData
	RecentDates []string
	Diseases    []diseaseCard
}

type datesData struct {
	layoutData
	Dates []string
}

type diseasesIndexData struct {
	layoutData
	Diseases []diseaseCard
}

type dailyItem struct {
	SectionName string
	Title       string
	URL         string
	Journal     string
	Ref         string
	Summary     string
}

type dailyGroup struct {
	Name  string
	Items []dailyItem
}

type dailyData struct {
	layoutData
	Date   string
	Groups []dailyGroup
}

type bullet struct {
	Summary string
	Ref     int
}

type sectionBlock struct {
	Name    string
	Text    string
	Bullets []bullet
}

type reference struct {
	Title   string
	URL     string
	Journal string
	Ref     string
}

type diseaseData struct {
	layoutData
	NameJA     string
	NameEN     string
	Sections   []sectionBlock
	References []reference
}

// BuildSite renders every page. latestDate selects which daily page to
// (re)generate; when empty the newest persisted date is used.
func (r *Renderer) BuildSite(latestDate string) error {
	dates, err := r.store.ListDailyDates()
	if err != nil {
		return err
	}
	if latestDate == "" && len(dates) > 0 {
		latestDate = dates[0]
	}

	cards := make([]diseaseCard, 0, len(r.tax.Diseases))
	for _, d := range r.tax.Diseases {
		cards = append(cards, diseaseCard{ID: d.ID, NameJA: d.NameJA, NameEN: d.NameEN})
	}

	recent := dates
	if len(recent) > r.recentDates {
		recent = recent[:r.recentDates]
	}

	generated := r.Now().In(jst).Format("2006-01-02 15:04")

	if err := r.writePage("home.html", filepath.Join(r.outDir, "index.html"), homeData{
		layoutData:  layoutData{Title: "Neuro Daily Review", Generated: generated},
		RecentDates: recent,
		Diseases:    cards,
	}); err != nil {
		return err
	}

	if err := r.writePage("daily_index.html", filepath.Join(r.outDir, "daily", "index.html"), datesData{
		layoutData: layoutData{Title: "Daily Reviews", Generated: generated},
		Dates:      dates,
	}); err != nil {
		return err
	}

	if err := r.writePage("diseases_index.html", filepath.Join(r.outDir, "diseases", "index.html"), diseasesIndexData{
		layoutData: layoutData{Title: "Disease Reviews", Generated: generated},
		Diseases:   cards,
	}); err != nil {
		return err
	}

	if latestDate != "" {
		daily, err := r.store.LoadDaily(latestDate)
		if err != nil {
			return err
		}
		data := r.buildDailyData(latestDate, daily.Items)
		data.Generated = generated
		if err := r.writePage("daily.html", filepath.Join(r.outDir, "daily", latestDate+".html"), data); err != nil {
			return err
		}
	}

	for _, d := range r.tax.Diseases {
		rec, err := r.store.LoadDiseaseRecord(d.ID)
		if err != nil {
			return err
		}
		text, err := r.store.LoadDiseaseText(d.ID)
		if err != nil {
			return err
		}
		data := r.buildDiseaseData(d, rec.Items, text.Sections)
		data.Generated = generated
		if err := r.writePage("disease.html", filepath.Join(r.outDir, "diseases", d.ID+".html"), data); err != nil {
			return err
		}
	}

	cssPath := filepath.Join(r.outDir, "assets", "style.css")
	if err := os.MkdirAll(filepath.Dir(cssPath), 0755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}
	if err := os.WriteFile(cssPath, styleCSS, 0644); err != nil {
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}

	logger.Info("site rendered", "out_dir", r.outDir, "dates", len(dates), "diseases", len(r.tax.Diseases))
	return nil
}

// buildDailyData groups the day's articles by disease id in first-seen
// order. Unassigned articles land in the "other" bucket.
func (r *Renderer) buildDailyData(date string, items []core.Article) dailyData {
	names := make(map[string]string, len(r.tax.Diseases))
	for _, d := range r.tax.Diseases {
		names[d.ID] = d.NameJA
	}
	sectionNames := make(map[string]string, len(r.tax.Sections))
	for _, s := range r.tax.Sections {
		sectionNames[s.ID] = s.NameJA
	}

	index := make(map[string]int)
	var groups []dailyGroup
	for _, it := range items {
		did := it.Disease
		if did == "" {
			did = classify.DefaultDisease
		}
		i, ok := index[did]
		if !ok {
			name := names[did]
			if name == "" {
				name = did
			}
			i = len(groups)
			index[did] = i
			groups = append(groups, dailyGroup{Name: name})
		}

		ref := it.DOI
		if ref == "" {
			ref = it.PMID
		}
		groups[i].Items = append(groups[i].Items, dailyItem{
			SectionName: sectionNames[it.Section],
			Title:       it.Title,
			URL:         it.URL,
			Journal:     it.Journal,
			Ref:         ref,
			Summary:     it.SummaryJA,
		})
	}

	return dailyData{
		layoutData: layoutData{Title: "Daily " + date},
		Date:       date,
		Groups:     groups,
	}
}

// buildDiseaseData groups a disease's stored articles by section id in
// first-seen order, renders each section's narrative text followed by its
// short-summary bullets, and compiles the shared numbered reference list.
// Items with an empty short summary are skipped; duplicates are collapsed
// page-wide by the case-insensitive trimmed raw key, first occurrence wins.
func (r *Renderer) buildDiseaseData(d core.Disease, items []core.Article, sectionsText map[string]string) diseaseData {
	sectionNames := make(map[string]string, len(r.tax.Sections))
	for _, s := range r.tax.Sections {
		sectionNames[s.ID] = s.NameJA
	}

	index := make(map[string]int)
	var blocks []sectionBlock

	refIndex := make(map[string]int)
	var refs []reference
	seen := make(map[string]bool)

	for _, it := range items {
		sid := it.Section
		if sid == "" {
			sid = classify.DefaultSection
		}
		i, ok := index[sid]
		if !ok {
			name := sectionNames[sid]
			if name == "" {
				name = sid
			}
			i = len(blocks)
			index[sid] = i
			blocks = append(blocks, sectionBlock{Name: name, Text: sectionsText[sid]})
		}

		if it.SummaryShortJA == "" {
			continue
		}

		key := pageKey(it)
		if seen[key] {
			continue
		}
		seen[key] = true

		rid, ok := refIndex[key]
		if !ok {
			ref := it.DOI
			if ref == "" {
				ref = it.PMID
			}
			refs = append(refs, reference{Title: it.Title, URL: it.URL, Journal: it.Journal, Ref: ref})
			rid = len(refs)
			refIndex[key] = rid
		}

		blocks[i].Bullets = append(blocks[i].Bullets, bullet{Summary: it.SummaryShortJA, Ref: rid})
	}

	return diseaseData{
		layoutData: layoutData{Title: d.NameJA},
		NameJA:     d.NameJA,
		NameEN:     d.NameEN,
		Sections:   blocks,
		References: refs,
	}
}

// pageKey is the within-page dedup key: lowercased trimmed raw
// doi/pmid/title.
func pageKey(it core.Article) string {
	key := it.DOI
	if key == "" {
		key = it.PMID
	}
	if key == "" {
		key = it.Title
	}
	return strings.ToLower(strings.TrimSpace(key))
}

func (r *Renderer) writePage(page, path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := r.templates[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
