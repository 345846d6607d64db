package core

// Article represents one normalized literature entry, regardless of which
// provider it came from. Optional fields (DOI, Abstract, Journal, URL) are
// empty strings when absent, never an error.
type Article struct {
	Source    string `json:"source"`    // Provider that returned this record ("pubmed", "epmc")
	PMID      string `json:"pmid"`      // PubMed identifier, may be empty
	DOI       string `json:"doi"`       // DOI, may be empty
	Title     string `json:"title"`     // Article title
	Abstract  string `json:"abstract"`  // Abstract text, may be empty
	Journal   string `json:"journal"`   // Journal name as reported by the provider
	Year      string `json:"year"`      // Publication year
	Published string `json:"published"` // Best-known publication date string
	URL       string `json:"url"`       // Link to the article

	// Fields assigned downstream by the classifier and summarizer.
	Disease        string `json:"disease"`          // Assigned disease id, "other" when unmatched
	Section        string `json:"section"`          // Assigned clinical section id
	SummaryJA      string `json:"summary_ja"`       // ~300-character Japanese summary
	SummaryShortJA string `json:"summary_short_ja"` // ~150-character Japanese summary
}

// Disease is one entry of the disease taxonomy. Slice order matters: the
// classifier returns the first disease whose term matches.
type Disease struct {
	ID     string   `yaml:"id" json:"id"`
	NameJA string   `yaml:"name_ja" json:"name_ja"`
	NameEN string   `yaml:"name_en" json:"name_en"`
	Terms  []string `yaml:"terms" json:"terms"` // Case-insensitive substring matches
}

// Section is one entry of the clinical-section taxonomy.
type Section struct {
	ID       string   `yaml:"id" json:"id"`
	NameJA   string   `yaml:"name_ja" json:"name_ja"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Journal is one allow-list entry. Matching is exact (case-insensitive,
// trimmed) against the canonical name or any alias, never substring.
type Journal struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases" json:"aliases"`
}

// DailyRecord holds one day's classified and summarized articles. The file
// for a date is fully overwritten when the job reruns for that date.
type DailyRecord struct {
	Date  string    `json:"date"` // YYYY-MM-DD
	Items []Article `json:"items"`
}

// DiseaseRecord accumulates every article ever classified to a disease,
// newest first. Growth is unbounded and items are never deduplicated
// against history.
type DiseaseRecord struct {
	Disease string    `json:"disease"`
	Items   []Article `json:"items"`
}

// DiseaseText holds the per-section narrative prose for a disease,
// incrementally revised by the text-generation service.
type DiseaseText struct {
	Disease  string            `json:"disease"`
	Sections map[string]string `json:"sections"`
}
