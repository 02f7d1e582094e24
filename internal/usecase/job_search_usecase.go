package usecase

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"job-board/internal/domain/job"
	"job-board/internal/infrastructure/scraper"
	"job-board/internal/ratelimit"
)

type JobSearchParams struct {
	ClientKey string
	Query     string
	Location  string
}

type JobSearchUsecase interface {
	Search(ctx context.Context, params JobSearchParams) (scraper.SearchResponse, error)
}

type rateLimiter interface {
	Allow(ctx context.Context, clientKey string, now time.Time) ratelimit.Decision
}

type JobSearch struct {
	scraper  scraper.ScraperClient
	limiter  rateLimiter
	cache    SearchCache
	cacheTTL time.Duration
	numJobs  int
	logger   *log.Logger
	now      func() time.Time
}

type JobSearchOption func(*JobSearch)

func WithSearchCache(cache SearchCache, ttl time.Duration) JobSearchOption {
	return func(u *JobSearch) {
		u.cache = cache
		u.cacheTTL = ttl
	}
}

func WithClock(now func() time.Time) JobSearchOption {
	return func(u *JobSearch) {
		if now != nil {
			u.now = now
		}
	}
}

func NewJobSearchUsecase(scraperClient scraper.ScraperClient, limiter rateLimiter, numJobs int, logger *log.Logger, opts ...JobSearchOption) *JobSearch {
	if numJobs <= 0 {
		numJobs = scraper.DefaultNumJobs
	}
	u := &JobSearch{
		scraper: scraperClient,
		limiter: limiter,
		numJobs: numJobs,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Search admits the caller through the limiter before validating, so a
// rejected empty query still consumes the client's window.
func (u *JobSearch) Search(ctx context.Context, params JobSearchParams) (scraper.SearchResponse, error) {
	if u.limiter != nil {
		d := u.limiter.Allow(ctx, params.ClientKey, u.now())
		if !d.Allowed {
			return scraper.SearchResponse{}, &RateLimitError{RetryAfter: d.RetryAfter}
		}
	}

	query := strings.TrimSpace(params.Query)
	location := strings.TrimSpace(params.Location)
	if query == "" {
		return scraper.SearchResponse{}, ErrInvalidInput
	}

	cacheKey := ""
	if u.cache != nil {
		cacheKey = JobsSearchCacheKey(query, location, u.numJobs)
		var raw json.RawMessage
		hit, err := u.cache.GetJSON(ctx, cacheKey, &raw)
		if err == nil && hit {
			if out, derr := scraper.DecodeSearchResponse(raw); derr == nil {
				u.logf("[Jobs] Cache HIT: %s", cacheKey)
				return out, nil
			}
		}
		u.logf("[Jobs] Cache MISS: %s", cacheKey)
	}

	if u.scraper == nil {
		return scraper.SearchResponse{}, &scraper.UpstreamError{}
	}

	u.logf("[Jobs] Search query=%q location=%q client=%s", query, location, params.ClientKey)
	out, err := u.scraper.SearchJobs(ctx, job.SearchQuery{Query: query, Location: location})
	if err != nil {
		u.logf("[Jobs] Search failed query=%q location=%q err=%v", query, location, err)
		return scraper.SearchResponse{}, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, out.Raw, u.cacheTTL); err == nil {
			u.logf("[Jobs] Cache SET: %s", cacheKey)
		}
	}
	return out, nil
}

func (u *JobSearch) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

var _ JobSearchUsecase = (*JobSearch)(nil)
