package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type jobSearchCacheKeyInput struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	NumJobs  int    `json:"num_jobs"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func JobsSearchCacheKey(query, location string, numJobs int) string {
	in := jobSearchCacheKeyInput{
		Query:    normalizeSearchValue(query),
		Location: normalizeSearchValue(location),
		NumJobs:  numJobs,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "jobs:search:" + hex.EncodeToString(sum[:])
}
