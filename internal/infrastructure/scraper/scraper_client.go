package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"job-board/internal/domain/job"
)

const (
	DefaultNumJobs = 10

	genericFailureMessage = "Failed to fetch jobs from scraper"
	maxErrorBodyBytes     = 64 << 10
)

var ErrMalformedResponse = errors.New("invalid response format from scraper")

// UpstreamError is a failed call to the scraper: transport error or non-2xx status.
type UpstreamError struct {
	StatusCode int
	Detail     string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return e.Detail
	}
	return genericFailureMessage
}

func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// SearchResponse keeps the upstream bytes so callers can relay them untouched.
type SearchResponse struct {
	Raw    json.RawMessage
	Result job.SearchResult
}

type ScraperClient interface {
	SearchJobs(ctx context.Context, q job.SearchQuery) (SearchResponse, error)
	Health(ctx context.Context) error
}

type httpScraperClient struct {
	baseURL string
	numJobs int
	client  *http.Client
	logger  *log.Logger
}

type searchJobsRequest struct {
	Query    string  `json:"query"`
	Location *string `json:"location"`
	NumJobs  int     `json:"num_jobs"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func NewScraperClient(baseURL string, numJobs int, timeout time.Duration, logger *log.Logger) ScraperClient {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if numJobs <= 0 {
		numJobs = DefaultNumJobs
	}
	return &httpScraperClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		numJobs: numJobs,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *httpScraperClient) SearchJobs(ctx context.Context, q job.SearchQuery) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, errors.New("nil scraper client")
	}
	endpoint := c.baseURL + "/jobs/"

	body := searchJobsRequest{Query: q.Query, NumJobs: c.numJobs}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		body.Location = &loc
	}
	b, err := json.Marshal(body)
	if err != nil {
		return SearchResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return SearchResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logf("[Scraper] SearchJobs transport error endpoint=%s err=%v", endpoint, err)
		return SearchResponse{}, &UpstreamError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		detail := parseDetail(rb)
		c.logf("[Scraper] SearchJobs error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, strings.TrimSpace(string(rb)))
		return SearchResponse{}, &UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     detail,
			Cause:      fmt.Errorf("scraper status=%d", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return SearchResponse{}, &UpstreamError{Cause: err}
	}

	out, err := DecodeSearchResponse(raw)
	if err != nil {
		c.logf("[Scraper] SearchJobs malformed body endpoint=%s bytes=%d", endpoint, len(raw))
		return SearchResponse{}, err
	}

	c.logf("[Scraper] SearchJobs ok query=%q location=%q jobs=%d latency=%s", q.Query, q.Location, len(out.Result.Jobs), time.Since(start))
	return out, nil
}

// DecodeSearchResponse rejects only bodies without a "jobs" array. Raw is
// always the upstream bytes; Result is decoded leniently for the page and CLI.
func DecodeSearchResponse(raw []byte) (SearchResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return SearchResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	rawJobs, ok := fields["jobs"]
	if !ok || !isJSONArray(rawJobs) {
		return SearchResponse{}, ErrMalformedResponse
	}
	var jobs []json.RawMessage
	if err := json.Unmarshal(rawJobs, &jobs); err != nil {
		return SearchResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return SearchResponse{Raw: json.RawMessage(raw), Result: decodeResult(fields, jobs)}, nil
}

func (c *httpScraperClient) Health(ctx context.Context) error {
	if c == nil {
		return errors.New("nil scraper client")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("scraper health status=%d", resp.StatusCode)
	}
	return nil
}

func (c *httpScraperClient) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// parseDetail extracts a string "detail" field; structured details fall back to the generic message.
func parseDetail(b []byte) string {
	var er errorResponse
	if err := json.Unmarshal(b, &er); err != nil || len(er.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(er.Detail, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

var _ ScraperClient = (*httpScraperClient)(nil)
