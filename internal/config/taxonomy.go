package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"shinkeireview/internal/core"
)

// Taxonomy holds the disease and clinical-section configuration. Both are
// ordered slices: the classifier's first-match tie-break depends on the
// order the file lists them in.
type Taxonomy struct {
	Diseases []core.Disease `yaml:"diseases"`
	Sections []core.Section `yaml:"sections"`
}

// LoadTaxonomy reads the disease/section taxonomy from diseases.yaml in the
// given config directory.
func LoadTaxonomy(configDir string) (*Taxonomy, error) {
	path := filepath.Join(configDir, "diseases.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	tax := &Taxonomy{}
	if err := yaml.Unmarshal(data, tax); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}

	if len(tax.Diseases) == 0 {
		return nil, fmt.Errorf("taxonomy file %s defines no diseases", path)
	}
	if len(tax.Sections) == 0 {
		return nil, fmt.Errorf("taxonomy file %s defines no sections", path)
	}

	return tax, nil
}

// LoadJournals reads the journal allow-list from journals.yaml in the given
// config directory.
func LoadJournals(configDir string) ([]core.Journal, error) {
	path := filepath.Join(configDir, "journals.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal allow-list %s: %w", path, err)
	}

	var doc struct {
		Journals []core.Journal `yaml:"journals"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse journal allow-list %s: %w", path, err)
	}

	return doc.Journals, nil
}
