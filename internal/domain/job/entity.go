package job

import (
	"strings"
	"time"
)

type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	PostedDate  string `json:"postedDate"`
	URL         string `json:"url"`
}

// PostedAt parses PostedDate; ok is false when the scraper sent something other than an ISO timestamp.
func (j Job) PostedAt() (time.Time, bool) {
	s := strings.TrimSpace(j.PostedDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type SearchQuery struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"`
}

// SearchResult mirrors the scraper response. TotalResults may exceed len(Jobs).
type SearchResult struct {
	Jobs         []Job   `json:"jobs"`
	TotalResults int     `json:"total_results"`
	SearchTime   float64 `json:"search_time"`
	Query        string  `json:"query"`
	Location     *string `json:"location"`
}
