// Package reference holds the versioned lookup tables the fetchers and scorers
// depend on: statistics table codes, reference periods, education levels, crime
// categories and national constants.
package reference

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var embedded []byte

// Tables is the full set of reference data.
type Tables struct {
	Version    string          `yaml:"version"`
	National   NationalConfig  `yaml:"national"`
	Education  EducationTable  `yaml:"education"`
	Crime      CrimeTable      `yaml:"crime"`
	Population PopulationTable `yaml:"population"`
}

// NationalConfig describes the whole-country baseline.
type NationalConfig struct {
	Label      string `yaml:"label"`
	Population int64  `yaml:"population"`
}

// Filter is a statistics variable restricted to a set of values.
type Filter struct {
	Code   string   `yaml:"code"`
	Values []string `yaml:"values"`
}

// Entry is a coded value with its human-readable label.
type Entry struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// EducationTable configures the highest-completed-education query.
type EducationTable struct {
	Table         string   `yaml:"table"`
	AreaVariable  string   `yaml:"area_variable"`
	LevelVariable string   `yaml:"level_variable"`
	ValueColumn   string   `yaml:"value_column"`
	WeightGrowth  float64  `yaml:"weight_growth"`
	Filters       []Filter `yaml:"filters"`
	Levels        []Entry  `yaml:"levels"` // lowest to highest attainment
}

// LevelCodes returns the level codes in attainment order.
func (e EducationTable) LevelCodes() []string {
	codes := make([]string, len(e.Levels))
	for i, l := range e.Levels {
		codes[i] = l.Code
	}
	return codes
}

// CrimeTable configures the reported-offences query.
type CrimeTable struct {
	Table            string  `yaml:"table"`
	AreaVariable     string  `yaml:"area_variable"`
	CategoryVariable string  `yaml:"category_variable"`
	PeriodVariable   string  `yaml:"period_variable"`
	ValueColumn      string  `yaml:"value_column"`
	Period           string  `yaml:"period"`
	Categories       []Entry `yaml:"categories"`
}

// Category returns the configured category for a code.
func (c CrimeTable) Category(code string) (Entry, bool) {
	for _, e := range c.Categories {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}

// PopulationTable configures the population lookup.
type PopulationTable struct {
	Table        string   `yaml:"table"`
	AreaVariable string   `yaml:"area_variable"`
	ValueColumn  string   `yaml:"value_column"`
	Areas        []string `yaml:"areas"`
}

// Default returns the embedded reference tables.
func Default() (*Tables, error) {
	return Parse(embedded)
}

// Load reads reference tables from a YAML file. An empty path returns the embedded tables.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reference: read %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates reference tables. The YAML has a top-level "reference" key.
func Parse(data []byte) (*Tables, error) {
	var wrapper struct {
		Reference Tables `yaml:"reference"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "reference: parse")
	}
	t := &wrapper.Reference
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every table needed for scoring is complete.
func (t *Tables) Validate() error {
	var errs []string

	if t.Version == "" {
		errs = append(errs, "version is required")
	}
	if t.National.Label == "" {
		errs = append(errs, "national.label is required")
	}
	if t.National.Population <= 0 {
		errs = append(errs, "national.population must be > 0")
	}

	if t.Education.Table == "" || t.Education.AreaVariable == "" || t.Education.LevelVariable == "" {
		errs = append(errs, "education table, area_variable and level_variable are required")
	}
	if len(t.Education.Levels) == 0 {
		errs = append(errs, "education.levels must not be empty")
	}
	if t.Education.WeightGrowth <= 1 {
		errs = append(errs, "education.weight_growth must be > 1")
	}
	errs = append(errs, duplicates("education.levels", t.Education.Levels)...)

	if t.Crime.Table == "" || t.Crime.AreaVariable == "" || t.Crime.CategoryVariable == "" {
		errs = append(errs, "crime table, area_variable and category_variable are required")
	}
	if t.Crime.Period == "" {
		errs = append(errs, "crime.period is required")
	}
	if len(t.Crime.Categories) == 0 {
		errs = append(errs, "crime.categories must not be empty")
	}
	errs = append(errs, duplicates("crime.categories", t.Crime.Categories)...)

	if t.Population.Table == "" || t.Population.AreaVariable == "" {
		errs = append(errs, "population table and area_variable are required")
	}
	if len(t.Population.Areas) == 0 {
		errs = append(errs, "population.areas must not be empty")
	}

	if len(errs) > 0 {
		return eris.Errorf("reference: invalid tables: %s", strings.Join(errs, "; "))
	}
	return nil
}

func duplicates(field string, entries []Entry) []string {
	var errs []string
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Code == "" {
			errs = append(errs, fmt.Sprintf("%s: empty code", field))
			continue
		}
		if seen[e.Code] {
			errs = append(errs, fmt.Sprintf("%s: duplicate code %s", field, e.Code))
		}
		seen[e.Code] = true
	}
	return errs
}
