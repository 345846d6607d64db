// Package store persists the pipeline's state as flat JSON files under a
// data directory: the summary cache, per-date daily records, per-disease
// cumulative records and per-disease narrative text. All reads happen once
// at the start of a phase and all writes once at its end; concurrent runs
// against the same directory are not supported.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shinkeireview/internal/core"
)

// Store reads and writes the pipeline's JSON files.
type Store struct {
	dataDir string
}

// New creates a store rooted at dataDir.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) cachePath() string {
	return filepath.Join(s.dataDir, "cache", "summaries.json")
}

func (s *Store) dailyPath(date string) string {
	return filepath.Join(s.dataDir, "daily", date+".json")
}

func (s *Store) diseasePath(id string) string {
	return filepath.Join(s.dataDir, "disease", id+".json")
}

func (s *Store) diseaseTextPath(id string) string {
	return filepath.Join(s.dataDir, "disease_text", id+".json")
}

// LoadCache reads the summary cache, returning an empty cache when the file
// does not exist yet.
func (s *Store) LoadCache() (*SummaryCache, error) {
	cache := NewSummaryCache()
	if err := s.readJSON(s.cachePath(), cache); err != nil {
		return nil, err
	}
	return cache, nil
}

// SaveCache writes the summary cache. Called once at the end of the
// summarization phase; a crash before that loses the run's new entries.
func (s *Store) SaveCache(cache *SummaryCache) error {
	return s.writeJSON(s.cachePath(), cache)
}

// SaveDaily writes a day's record, fully overwriting any prior run for the
// same date.
func (s *Store) SaveDaily(rec core.DailyRecord) error {
	return s.writeJSON(s.dailyPath(rec.Date), rec)
}

// LoadDaily reads the record for a date, returning an empty record when the
// file does not exist.
func (s *Store) LoadDaily(date string) (core.DailyRecord, error) {
	rec := core.DailyRecord{Date: date}
	if err := s.readJSON(s.dailyPath(date), &rec); err != nil {
		return core.DailyRecord{}, err
	}
	return rec, nil
}

// ListDailyDates returns every persisted date, newest first.
func (s *Store) ListDailyDates() ([]string, error) {
	dir := filepath.Join(s.dataDir, "daily")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list daily records: %w", err)
	}

	var dates []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// LoadDiseaseRecord reads a disease's cumulative record, initializing an
// empty one when the file does not exist.
func (s *Store) LoadDiseaseRecord(id string) (core.DiseaseRecord, error) {
	rec := core.DiseaseRecord{Disease: id}
	if err := s.readJSON(s.diseasePath(id), &rec); err != nil {
		return core.DiseaseRecord{}, err
	}
	return rec, nil
}

// PrependDiseaseItems writes today's new items for a disease ahead of all
// previously stored items. No cap, no dedup against history.
func (s *Store) PrependDiseaseItems(id string, items []core.Article) error {
	rec, err := s.LoadDiseaseRecord(id)
	if err != nil {
		return err
	}
	rec.Items = append(append([]core.Article{}, items...), rec.Items...)
	return s.writeJSON(s.diseasePath(id), rec)
}

// LoadDiseaseText reads a disease's narrative text, initializing empty
// sections when the file does not exist.
func (s *Store) LoadDiseaseText(id string) (core.DiseaseText, error) {
	text := core.DiseaseText{Disease: id, Sections: make(map[string]string)}
	if err := s.readJSON(s.diseaseTextPath(id), &text); err != nil {
		return core.DiseaseText{}, err
	}
	if text.Sections == nil {
		text.Sections = make(map[string]string)
	}
	return text, nil
}

// SaveDiseaseText writes a disease's narrative text.
func (s *Store) SaveDiseaseText(text core.DiseaseText) error {
	return s.writeJSON(s.diseaseTextPath(text.Disease), text)
}

// readJSON decodes a JSON file into v, leaving v untouched when the file
// does not exist.
func (s *Store) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON encodes v to a JSON file, creating parent directories as
// needed. Last write wins; there is no locking.
func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
