package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field names understood in a source's field map.
const (
	FieldTitle            = "title"
	FieldDepartment       = "department"
	FieldLocation         = "location"
	FieldQualification    = "qualification"
	FieldDeadline         = "deadline"
	FieldPostingDate      = "posting_date"
	FieldLink             = "link"
	FieldApplicationLink  = "application_link"
	FieldPositions        = "positions"
	FieldSalary           = "salary"
	FieldAgeLimit         = "age_limit"
	FieldFee              = "fee"
	FieldDescription      = "description"
	FieldSelectionProcess = "selection_process"
)

var ErrInvalidSource = errors.New("invalid source")

var defaultDateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"02 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"January 2, 2006",
}

// Source describes one listing page. Field selectors are CSS selectors
// evaluated inside each item; a "@attr" suffix reads that attribute instead
// of the element text, e.g. "a.title@href".
type Source struct {
	Name         string            `yaml:"name"`
	ListURL      string            `yaml:"list_url"`
	ItemSelector string            `yaml:"item_selector"`
	Fields       map[string]string `yaml:"fields"`
	Detail       map[string]string `yaml:"detail"`
	Defaults     map[string]string `yaml:"defaults"`
	Headless     bool              `yaml:"headless"`
	WaitSelector string            `yaml:"wait_selector"`
	DateLayouts  []string          `yaml:"date_layouts"`
	Disabled     bool              `yaml:"disabled"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

func LoadSources(path string) ([]Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return ParseSources(b)
}

// ParseSources decodes and validates a sources document. Disabled sources are
// dropped; duplicate names are rejected.
func ParseSources(b []byte) ([]Source, error) {
	var f sourcesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}

	out := make([]Source, 0, len(f.Sources))
	seen := map[string]struct{}{}
	for i, s := range f.Sources {
		s.Name = strings.TrimSpace(s.Name)
		s.ListURL = strings.TrimSpace(s.ListURL)
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		key := strings.ToLower(s.Name)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("source %q: %w: duplicate name", s.Name, ErrInvalidSource)
		}
		seen[key] = struct{}{}
		if s.Disabled {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (s Source) validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSource)
	}
	u, err := url.Parse(s.ListURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s: bad list_url", ErrInvalidSource, s.Name)
	}
	if strings.TrimSpace(s.ItemSelector) == "" {
		return fmt.Errorf("%w: %s: missing item_selector", ErrInvalidSource, s.Name)
	}
	for _, f := range []string{FieldTitle, FieldLink} {
		if strings.TrimSpace(s.Fields[f]) == "" {
			return fmt.Errorf("%w: %s: missing %s selector", ErrInvalidSource, s.Name, f)
		}
	}
	return nil
}

func (s Source) layouts() []string {
	if len(s.DateLayouts) > 0 {
		return s.DateLayouts
	}
	return defaultDateLayouts
}

// allowedHosts lists the host with and without its port.
func allowedHosts(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	if u.Host == u.Hostname() {
		return []string{u.Host}
	}
	return []string{u.Hostname(), u.Host}
}

// Select returns the sources whose name matches one of names, or all of them
// when names is empty or contains "all".
func Select(sources []Source, names []string) ([]Source, error) {
	want := map[string]struct{}{}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if n == "all" {
			return sources, nil
		}
		want[n] = struct{}{}
	}
	if len(want) == 0 {
		return sources, nil
	}

	out := make([]Source, 0, len(want))
	for _, s := range sources {
		if _, ok := want[strings.ToLower(s.Name)]; ok {
			out = append(out, s)
			delete(want, strings.ToLower(s.Name))
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("unknown source(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}
