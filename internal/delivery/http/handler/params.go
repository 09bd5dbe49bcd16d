package handler

import (
	"strconv"
	"strings"

	"govtjobs/internal/domain/job"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

// parseSearchParams reads the job board's query string. Defaults are left
// to SearchParams.Normalize. clear=1 drops the sidebar filters the same way
// the portal's "clear filters" button does.
func parseSearchParams(c fiber.Ctx) (job.SearchParams, error) {
	page, err := parseQueryIntStrict(c, "page", 0)
	if err != nil {
		return job.SearchParams{}, err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return job.SearchParams{}, err
	}
	includeExpired, err := parseQueryBool(c, "includeExpired")
	if err != nil {
		return job.SearchParams{}, err
	}
	clearFilters, err := parseQueryBool(c, "clear")
	if err != nil {
		return job.SearchParams{}, err
	}

	update := job.FilterUpdate{
		Search:        queryPtr(c, "search"),
		Department:    queryPtr(c, "department"),
		Location:      queryPtr(c, "location"),
		Qualification: queryPtr(c, "qualification"),
	}
	if s := queryPtr(c, "posted"); s != nil {
		b := job.PostedBucket(*s)
		update.PostedWithin = &b
	}
	if s := queryPtr(c, "sort"); s != nil {
		k := job.SortKey(*s)
		update.SortBy = &k
	}

	p := job.SearchParams{Limit: limit, IncludeExpired: includeExpired}.Apply(update)
	if clearFilters {
		return job.ClearFilters(p), nil
	}
	p.Page = page
	return p, nil
}

func parseQueryBool(c fiber.Ctx, key string) (bool, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// queryPtr returns nil for an absent or blank query value.
func queryPtr(c fiber.Ctx, key string) *string {
	s := c.Query(key)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func parseIDParam(c fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params("id")))
}
