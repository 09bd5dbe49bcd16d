package scraper

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"govtjobs/internal/domain/job"

	"github.com/PuerkitoBio/goquery"
)

var ist = time.FixedZone("IST", 5*3600+1800)

const listingHTML = `<html><body>
<table class="notices">
  <tr class="row">
    <td class="title"><a href="/notice/cgl-2026">  Combined Graduate
      Level Exam 2026 </a></td>
    <td class="posts">7,500 Posts</td>
    <td class="last-date">24th October 2026</td>
  </tr>
  <tr class="row">
    <td class="title"><a href="https://other.example.in/chsl">CHSL 2026</a></td>
    <td class="posts">-</td>
    <td class="last-date">soon</td>
  </tr>
</table>
</body></html>`

func testSource() Source {
	return Source{
		Name:         "ssc",
		ListURL:      "https://ssc.example.gov.in/notices",
		ItemSelector: "tr.row",
		Fields: map[string]string{
			FieldTitle:     "td.title",
			FieldLink:      "td.title a@href",
			FieldPositions: "td.posts",
			FieldDeadline:  "td.last-date",
		},
		Defaults: map[string]string{FieldDepartment: "Staff Selection Commission"},
	}
}

func TestExtractItems(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	base, _ := url.Parse("https://ssc.example.gov.in/notices")

	items := extractItems(doc.Selection, testSource(), base)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0][FieldTitle] != "Combined Graduate Level Exam 2026" {
		t.Fatalf("title not cleaned: %q", items[0][FieldTitle])
	}
	if items[0][FieldLink] != "https://ssc.example.gov.in/notice/cgl-2026" {
		t.Fatalf("relative link not resolved: %q", items[0][FieldLink])
	}
	if items[1][FieldLink] != "https://other.example.in/chsl" {
		t.Fatalf("absolute link changed: %q", items[1][FieldLink])
	}
}

func TestToJob(t *testing.T) {
	src := testSource()
	today := time.Date(2026, 10, 15, 9, 0, 0, 0, ist)
	it := Item{
		FieldTitle:     "Combined Graduate Level Exam 2026",
		FieldLink:      "https://ssc.example.gov.in/notice/cgl-2026",
		FieldPositions: "7,500 Posts",
		FieldDeadline:  "24th October 2026",
		FieldSalary:    "Rs 25,500 - 81,100",
	}.merge(nil, src.Defaults)

	j, err := ToJob(src, it, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if j.Department != "Staff Selection Commission" {
		t.Fatalf("department default not applied: %q", j.Department)
	}
	if j.ApplicationLink != j.SourceURL {
		t.Fatalf("application link should fall back to source url")
	}
	if j.Location != "All India" || j.Qualification == "" {
		t.Fatalf("fallbacks not applied: %+v", j)
	}
	if want := time.Date(2026, 10, 24, 0, 0, 0, 0, ist); !j.Deadline.Equal(want) {
		t.Fatalf("deadline=%v want %v", j.Deadline, want)
	}
	if !j.PostingDate.Equal(job.StartOfDay(today)) {
		t.Fatalf("posting date should default to today, got %v", j.PostingDate)
	}
	if j.Positions == nil || *j.Positions != 7500 {
		t.Fatalf("positions=%v", j.Positions)
	}
	if j.Salary == nil || *j.Salary != "Rs 25,500 - 81,100" {
		t.Fatalf("salary=%v", j.Salary)
	}
	if j.Fee != nil {
		t.Fatalf("fee should be nil")
	}
}

func TestToJob_Rejects(t *testing.T) {
	src := testSource()
	today := time.Date(2026, 10, 15, 9, 0, 0, 0, ist)
	base := Item{
		FieldTitle:      "Exam",
		FieldLink:       "https://ssc.example.gov.in/x",
		FieldDepartment: "SSC",
		FieldDeadline:   "2026-10-30",
	}
	clone := func(mut func(Item)) Item {
		out := Item{}
		for k, v := range base {
			out[k] = v
		}
		mut(out)
		return out
	}

	if _, err := ToJob(src, clone(func(it Item) { delete(it, FieldTitle) }), today); !errors.Is(err, errMissingField) {
		t.Fatalf("missing title: %v", err)
	}
	if _, err := ToJob(src, clone(func(it Item) { delete(it, FieldDepartment) }), today); !errors.Is(err, errMissingField) {
		t.Fatalf("missing department: %v", err)
	}
	if _, err := ToJob(src, clone(func(it Item) { it[FieldDeadline] = "soon" }), today); !errors.Is(err, errBadDate) {
		t.Fatalf("bad deadline: %v", err)
	}
	if _, err := ToJob(src, clone(func(it Item) { it[FieldLink] = "/relative" }), today); !errors.Is(err, job.ErrInvalidJob) {
		t.Fatalf("non-http link: %v", err)
	}
}

func TestToJob_PostingDateNeverAfterDeadline(t *testing.T) {
	src := testSource()
	today := time.Date(2026, 10, 15, 9, 0, 0, 0, ist)
	j, err := ToJob(src, Item{
		FieldTitle:      "Exam",
		FieldLink:       "https://ssc.example.gov.in/x",
		FieldDepartment: "SSC",
		FieldDeadline:   "10/10/2026",
	}, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !j.PostingDate.Equal(j.Deadline) {
		t.Fatalf("posting date %v should clamp to deadline %v", j.PostingDate, j.Deadline)
	}
}

func TestParsePositions(t *testing.T) {
	cases := map[string]int{"7,500 Posts": 7500, "Posts: 12": 12, "0": 0}
	for in, want := range cases {
		got, ok := parsePositions(in)
		if !ok || got != want {
			t.Fatalf("%q: got %d ok=%t", in, got, ok)
		}
	}
	if _, ok := parsePositions("various"); ok {
		t.Fatalf("expected no number")
	}
}
