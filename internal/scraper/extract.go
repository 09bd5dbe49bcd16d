package scraper

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"govtjobs/internal/domain/job"

	"github.com/PuerkitoBio/goquery"
)

// Item is one scraped listing before conversion: field name to raw text.
type Item map[string]string

var (
	errMissingField = errors.New("missing required field")
	errBadDate      = errors.New("unparseable date")

	spaceRe  = regexp.MustCompile(`\s+`)
	digitsRe = regexp.MustCompile(`[0-9][0-9,]*`)
	ordinal  = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
)

func splitSelector(sel string) (css string, attr string) {
	sel = strings.TrimSpace(sel)
	if i := strings.LastIndex(sel, "@"); i >= 0 {
		return strings.TrimSpace(sel[:i]), strings.TrimSpace(sel[i+1:])
	}
	return sel, ""
}

// extractFields evaluates fields against s. Relative links are resolved
// against base.
func extractFields(s *goquery.Selection, fields map[string]string, base *url.URL) Item {
	out := make(Item, len(fields))
	for name, sel := range fields {
		css, attr := splitSelector(sel)
		target := s
		if css != "" && css != "." {
			target = s.Find(css).First()
		}
		var v string
		if attr != "" {
			v = target.AttrOr(attr, "")
		} else {
			v = target.Text()
		}
		v = cleanText(v)
		if v == "" {
			continue
		}
		if attr == "href" || attr == "src" {
			v = resolveURL(base, v)
		}
		out[name] = v
	}
	return out
}

// extractItems runs the item selector over doc and extracts every item.
func extractItems(doc *goquery.Selection, src Source, base *url.URL) []Item {
	items := make([]Item, 0)
	doc.Find(src.ItemSelector).Each(func(_ int, s *goquery.Selection) {
		it := extractFields(s, src.Fields, base)
		if len(it) > 0 {
			items = append(items, it)
		}
	})
	return items
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// merge fills missing keys of it from extra, then from defaults.
func (it Item) merge(extra Item, defaults map[string]string) Item {
	for k, v := range extra {
		if _, ok := it[k]; !ok {
			it[k] = v
		}
	}
	for k, v := range defaults {
		if _, ok := it[k]; !ok && strings.TrimSpace(v) != "" {
			it[k] = strings.TrimSpace(v)
		}
	}
	return it
}

// ToJob converts a scraped item into a listing. The item's link becomes the
// source URL, and doubles as the application link when none was scraped.
// A missing posting date defaults to today.
func ToJob(src Source, it Item, today time.Time) (job.Job, error) {
	j := job.Job{
		Title:           it[FieldTitle],
		Department:      it[FieldDepartment],
		Location:        it[FieldLocation],
		Qualification:   it[FieldQualification],
		SourceURL:       it[FieldLink],
		ApplicationLink: it[FieldApplicationLink],
		IsActive:        true,
	}
	if j.ApplicationLink == "" {
		j.ApplicationLink = j.SourceURL
	}
	if j.Title == "" || j.SourceURL == "" || j.Department == "" {
		return job.Job{}, errMissingField
	}
	if j.Location == "" {
		j.Location = "All India"
	}
	if j.Qualification == "" {
		j.Qualification = "As per notification"
	}

	loc := today.Location()
	deadline, err := parseDate(it[FieldDeadline], src.layouts(), loc)
	if err != nil {
		return job.Job{}, err
	}
	j.Deadline = deadline

	j.PostingDate = job.StartOfDay(today)
	if raw := it[FieldPostingDate]; raw != "" {
		if d, err := parseDate(raw, src.layouts(), loc); err == nil {
			j.PostingDate = d
		}
	}
	if j.Deadline.Before(j.PostingDate) {
		j.PostingDate = j.Deadline
	}

	if n, ok := parsePositions(it[FieldPositions]); ok {
		j.Positions = &n
	}
	j.Salary = optional(it[FieldSalary])
	j.AgeLimit = optional(it[FieldAgeLimit])
	j.Fee = optional(it[FieldFee])
	j.Description = optional(it[FieldDescription])
	j.SelectionProcess = optional(it[FieldSelectionProcess])

	if err := job.ValidateForWrite(j); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func parseDate(raw string, layouts []string, loc *time.Location) (time.Time, error) {
	raw = cleanText(raw)
	if raw == "" {
		return time.Time{}, errMissingField
	}
	raw = ordinal.ReplaceAllString(raw, "$1")
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadDate
}

// parsePositions reads the first number in s, e.g. "1,200 Posts".
func parsePositions(s string) (int, bool) {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
