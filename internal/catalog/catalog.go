package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema identifies how a source lays out its result tables.
type Schema string

const (
	// SchemaCATRS pages (CAT001RS.htm) flatten names and stats into one cell
	// sequence without reliable row boundaries.
	SchemaCATRS Schema = "CAT_RS"
	// SchemaDataHTM pages (data0190.htm) group cells into genuine rows.
	SchemaDataHTM Schema = "DATA_HTM"
)

// CurrentSeason is the only season published with segmented SEGnnn.htm
// detail files. Older seasons use numbered dataNNNN.htm files.
const CurrentSeason = "2024-25"

// Category is one discipline page of a source (men, women).
type Category struct {
	Label string `yaml:"label" json:"label"`
	File  string `yaml:"file" json:"file"`
}

// Source describes one competition's result pages.
type Source struct {
	Name       string     `yaml:"name" json:"name"`
	Season     string     `yaml:"season" json:"season"`
	MonthHint  int        `yaml:"month,omitempty" json:"month,omitempty"`
	Organizer  string     `yaml:"organizer" json:"organizer"`
	BaseURL    string     `yaml:"base_url" json:"base_url"`
	Categories []Category `yaml:"categories" json:"categories"`
	Schema     Schema     `yaml:"schema" json:"schema"`
}

// Key identifies a source for memoization.
func (s *Source) Key() string {
	return s.BaseURL
}

// PageURL returns the result page URL of a category.
func (s *Source) PageURL(c Category) string {
	return joinURL(s.BaseURL, c.File)
}

// SegmentURLs returns the short program and free skating detail page URLs
// for a category. The naming scheme is chosen by season equality with
// CurrentSeason.
func (s *Source) SegmentURLs(c Category) (sp, fs string, err error) {
	n, err := categoryNumber(c.File)
	if err != nil {
		return "", "", err
	}

	if s.Season == CurrentSeason {
		sp = fmt.Sprintf("SEG%03d.htm", 2*n-1)
		fs = fmt.Sprintf("SEG%03d.htm", 2*n)
	} else {
		sp = fmt.Sprintf("data%02d03.htm", n)
		fs = fmt.Sprintf("data%02d05.htm", n)
	}

	return joinURL(s.BaseURL, sp), joinURL(s.BaseURL, fs), nil
}

var (
	catFilePattern  = regexp.MustCompile(`(?i)^CAT(\d{3})RS\.html?$`)
	dataFilePattern = regexp.MustCompile(`(?i)^data(\d{2})\d{2}\.html?$`)
)

// categoryNumber extracts the category number from a result page file name:
// CAT001RS.htm → 1, data0290.htm → 2.
func categoryNumber(file string) (int, error) {
	var digits string
	if m := catFilePattern.FindStringSubmatch(file); m != nil {
		digits = m[1]
	} else if m := dataFilePattern.FindStringSubmatch(file); m != nil {
		digits = m[1]
	} else {
		return 0, fmt.Errorf("unrecognized category file: %q", file)
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid category number in %q", file)
	}
	return n, nil
}

func joinURL(base, file string) string {
	return strings.TrimSuffix(base, "/") + "/" + file
}

// Validate checks that a source can be searched.
func (s *Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("source has no name")
	}
	if s.BaseURL == "" {
		return fmt.Errorf("source %q has no base_url", s.Name)
	}
	if s.Schema != SchemaCATRS && s.Schema != SchemaDataHTM {
		return fmt.Errorf("source %q has unknown schema %q", s.Name, s.Schema)
	}
	if len(s.Categories) == 0 {
		return fmt.Errorf("source %q has no categories", s.Name)
	}
	if s.MonthHint < 0 || s.MonthHint > 12 {
		return fmt.Errorf("source %q has invalid month %d", s.Name, s.MonthHint)
	}
	for _, c := range s.Categories {
		if c.File == "" {
			return fmt.Errorf("source %q has a category without file", s.Name)
		}
	}
	return nil
}

// file is the YAML catalog document.
type file struct {
	Sources []*Source `yaml:"sources"`
}

// Load reads a YAML catalog from path.
func Load(path string) ([]*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) ([]*Source, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Sources) == 0 {
		return nil, fmt.Errorf("catalog has no sources")
	}
	for _, s := range f.Sources {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Sources, nil
}

// LoadOrDefault loads the catalog at path, or returns the built-in catalog
// when path is empty.
func LoadOrDefault(path string) ([]*Source, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
