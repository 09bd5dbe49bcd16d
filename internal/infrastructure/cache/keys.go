package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"govtjobs/internal/domain/job"
)

const (
	JobsSearchPrefix = "jobs:search:"
	JobsLockPrefix   = "jobs:lock:"
	FiltersKey       = "jobs:filters"
	StatsKey         = "stats:snapshot"
)

type searchKeyInput struct {
	Search        string `json:"search"`
	Department    string `json:"department"`
	Location      string `json:"location"`
	Qualification string `json:"qualification"`
	Posted        string `json:"posted"`
	Sort          string `json:"sort"`
	Page          int    `json:"page"`
	Limit         int    `json:"limit"`
	Expired       bool   `json:"expired"`
}

func normalizeKeyValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// JobsSearchKey hashes normalized params so equivalent searches share an
// entry.
func JobsSearchKey(p job.SearchParams) string {
	in := searchKeyInput{
		Search:        normalizeKeyValue(p.Search),
		Department:    normalizeKeyValue(p.Department),
		Location:      normalizeKeyValue(p.Location),
		Qualification: normalizeKeyValue(p.Qualification),
		Posted:        string(p.PostedWithin),
		Sort:          string(p.SortBy),
		Page:          p.Page,
		Limit:         p.Limit,
		Expired:       p.IncludeExpired,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return JobsSearchPrefix + hex.EncodeToString(sum[:])
}

func JobsSearchLockKey(searchKey string) string {
	searchKey = strings.TrimSpace(searchKey)
	return JobsLockPrefix + strings.TrimPrefix(searchKey, JobsSearchPrefix)
}
