package job

import (
	"strings"
	"time"
)

// All is the sentinel meaning "do not filter on this field".
const All = "all"

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type PostedBucket string

const (
	PostedAny   PostedBucket = "any"
	PostedToday PostedBucket = "today"
	PostedWeek  PostedBucket = "week"
	PostedMonth PostedBucket = "month"
)

func (b PostedBucket) valid() bool {
	switch b {
	case PostedAny, PostedToday, PostedWeek, PostedMonth:
		return true
	}
	return false
}

// Since returns the earliest posting time admitted by the bucket, evaluated in
// loc. ok is false for PostedAny.
func (b PostedBucket) Since(now time.Time, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	today := StartOfDay(now.In(loc))
	switch b {
	case PostedToday:
		return today, true
	case PostedWeek:
		return today.AddDate(0, 0, -7), true
	case PostedMonth:
		return today.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

type SortKey string

const (
	SortLatest    SortKey = "latest"
	SortDeadline  SortKey = "deadline"
	SortTitle     SortKey = "title"
	SortRelevance SortKey = "relevance"
)

func (k SortKey) valid() bool {
	switch k {
	case SortLatest, SortDeadline, SortTitle, SortRelevance:
		return true
	}
	return false
}

// SearchParams is the filter descriptor sent by the job board.
type SearchParams struct {
	Search         string
	Department     string
	Location       string
	Qualification  string
	PostedWithin   PostedBucket
	SortBy         SortKey
	Page           int
	Limit          int
	IncludeExpired bool
}

// Normalize fills defaults and rejects values the repository cannot honour.
func (p SearchParams) Normalize() (SearchParams, error) {
	p.Search = strings.Join(strings.Fields(p.Search), " ")
	p.Location = strings.TrimSpace(p.Location)
	p.Department = sentinelOr(p.Department)
	p.Qualification = sentinelOr(p.Qualification)

	p.PostedWithin = PostedBucket(strings.ToLower(strings.TrimSpace(string(p.PostedWithin))))
	if p.PostedWithin == "" {
		p.PostedWithin = PostedAny
	}
	if !p.PostedWithin.valid() {
		return SearchParams{}, ErrInvalidParam
	}

	p.SortBy = SortKey(strings.ToLower(strings.TrimSpace(string(p.SortBy))))
	if p.SortBy == "" {
		p.SortBy = SortLatest
	}
	if !p.SortBy.valid() {
		return SearchParams{}, ErrInvalidParam
	}
	if p.SortBy == SortRelevance && p.Search == "" {
		p.SortBy = SortLatest
	}

	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Page < 1 {
		return SearchParams{}, ErrInvalidParam
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 0 || p.Limit > MaxLimit {
		return SearchParams{}, ErrInvalidParam
	}
	return p, nil
}

func sentinelOr(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, All) {
		return All
	}
	return v
}

func (p SearchParams) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// HasFilter reports whether any constraint beyond paging and sorting is set.
func (p SearchParams) HasFilter() bool {
	return p.Search != "" ||
		(p.Department != "" && p.Department != All) ||
		(p.Qualification != "" && p.Qualification != All) ||
		p.Location != "" ||
		(p.PostedWithin != "" && p.PostedWithin != PostedAny)
}

// FilterUpdate is a partial change emitted by the filter sidebar. Nil fields
// are left untouched.
type FilterUpdate struct {
	Search        *string
	Department    *string
	Location      *string
	Qualification *string
	PostedWithin  *PostedBucket
	SortBy        *SortKey
}

// Apply merges u into p. Changing any filter sends the caller back to page 1.
func (p SearchParams) Apply(u FilterUpdate) SearchParams {
	changed := false
	if u.Search != nil {
		p.Search = *u.Search
		changed = true
	}
	if u.Department != nil {
		p.Department = *u.Department
		changed = true
	}
	if u.Location != nil {
		p.Location = *u.Location
		changed = true
	}
	if u.Qualification != nil {
		p.Qualification = *u.Qualification
		changed = true
	}
	if u.PostedWithin != nil {
		p.PostedWithin = *u.PostedWithin
		changed = true
	}
	if u.SortBy != nil {
		p.SortBy = *u.SortBy
		changed = true
	}
	if changed {
		p.Page = DefaultPage
	}
	return p
}

// ClearFilters resets department and qualification to All and clears the
// location. Search text, sort order and page size survive.
func ClearFilters(p SearchParams) SearchParams {
	p.Department = All
	p.Qualification = All
	p.Location = ""
	p.Page = DefaultPage
	return p
}

// SearchResult is one page of matching jobs.
type SearchResult struct {
	Items      []Job
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

func NewSearchResult(items []Job, total, page, limit int) SearchResult {
	pages := 0
	if limit > 0 && total > 0 {
		pages = (total + limit - 1) / limit
	}
	if items == nil {
		items = []Job{}
	}
	return SearchResult{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}
