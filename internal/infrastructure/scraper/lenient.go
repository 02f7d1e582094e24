package scraper

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"job-board/internal/domain/job"
)

func isJSONArray(b json.RawMessage) bool {
	t := bytes.TrimSpace(b)
	return len(t) > 0 && t[0] == '['
}

// decodeResult never fails: fields of an unexpected type become zero values
// and entries in "jobs" that are not objects are skipped.
func decodeResult(fields map[string]json.RawMessage, jobs []json.RawMessage) job.SearchResult {
	res := job.SearchResult{Jobs: make([]job.Job, 0, len(jobs))}
	for _, rj := range jobs {
		if j, ok := decodeJob(rj); ok {
			res.Jobs = append(res.Jobs, j)
		}
	}

	if n, ok := looseInt(fields["total_results"]); ok {
		res.TotalResults = n
	} else {
		res.TotalResults = len(res.Jobs)
	}
	res.SearchTime, _ = looseFloat(fields["search_time"])
	res.Query = looseString(fields["query"])
	if loc, ok := fields["location"]; ok && !isNull(loc) {
		s := looseString(loc)
		res.Location = &s
	}
	return res
}

func decodeJob(raw json.RawMessage) (job.Job, bool) {
	var j job.Job
	if err := json.Unmarshal(raw, &j); err == nil {
		return j, true
	}

	var f map[string]json.RawMessage
	if err := json.Unmarshal(raw, &f); err != nil {
		return job.Job{}, false
	}
	return job.Job{
		ID:          looseString(f["id"]),
		Title:       looseString(f["title"]),
		Company:     looseString(f["company"]),
		Location:    looseString(f["location"]),
		Description: looseString(f["description"]),
		PostedDate:  looseString(f["postedDate"]),
		URL:         looseString(f["url"]),
	}, true
}

func isNull(b json.RawMessage) bool {
	t := bytes.TrimSpace(b)
	return len(t) == 0 || string(t) == "null"
}

// looseString returns strings as-is and numbers or booleans as their literal text.
func looseString(b json.RawMessage) string {
	if isNull(b) {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	t := bytes.TrimSpace(b)
	switch t[0] {
	case '{', '[':
		return ""
	}
	return string(t)
}

func looseFloat(b json.RawMessage) (float64, bool) {
	if isNull(b) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func looseInt(b json.RawMessage) (int, bool) {
	f, ok := looseFloat(b)
	if !ok {
		return 0, false
	}
	return int(f), true
}
