package search

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeQuery(t *testing.T) {
	cases := map[string]string{
		"  RRB   NTPC!! ": "rrb ntpc",
		"B.Sc Nursing":    "bsc nursing",
		"SSC-CGL/2025":    "ssc cgl 2025",
		"":                "",
	}
	for in, want := range cases {
		if got := NormalizeQuery(in); got != want {
			t.Fatalf("NormalizeQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProcessQuery_ExpandsAbbreviations(t *testing.T) {
	ctx := ProcessQuery("SSC CGL")
	if ctx.Variants[0] != "ssc cgl" {
		t.Fatalf("expected normalized query first, got %v", ctx.Variants)
	}
	want := map[string]bool{
		"staff selection commission cgl": false,
		"ssc combined graduate level":    false,
	}
	for _, v := range ctx.Variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, found := range want {
		if !found {
			t.Fatalf("expected variant %q in %v", v, ctx.Variants)
		}
	}
	if len(ctx.Variants) > maxVariants {
		t.Fatalf("expected at most %d variants, got %d", maxVariants, len(ctx.Variants))
	}
}

func TestProcessQuery_CompactForm(t *testing.T) {
	ctx := ProcessQuery("dataentry delhi")
	found := false
	for _, v := range ctx.Variants {
		if v == "data entry operator delhi" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected compact form to expand, got %v", ctx.Variants)
	}
}

func TestProcessQuery_Empty(t *testing.T) {
	if ctx := ProcessQuery("  !! "); len(ctx.Variants) != 0 {
		t.Fatalf("expected no variants, got %v", ctx.Variants)
	}
}

func TestRankJobs(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	jobs := []Job{
		{ID: uuid.New(), Title: "Junior Engineer", Department: "Central PWD", PostingDate: now.AddDate(0, 0, -20)},
		{ID: uuid.New(), Title: "Station Master", Department: "Indian Railways", PostingDate: now.AddDate(0, 0, -20)},
		{ID: uuid.New(), Title: "RRB Technician", Department: "Indian Railways", PostingDate: now},
	}
	ranked := RankJobs(jobs, ProcessQuery("rrb").Variants, now)
	if ranked[0].ID != jobs[2].ID || ranked[1].ID != jobs[1].ID || ranked[2].ID != jobs[0].ID {
		t.Fatalf("unexpected order: %v %v %v", ranked[0].Title, ranked[1].Title, ranked[2].Title)
	}
}

func TestRankJobs_NothingScoresKeepsOrder(t *testing.T) {
	jobs := []Job{{Title: "a"}, {Title: "b"}}
	ranked := RankJobs(jobs, nil, time.Time{})
	if ranked[0].Title != "a" || ranked[1].Title != "b" {
		t.Fatalf("expected input order")
	}
}
