package usecase

import (
	"errors"
	"time"

	"job-board/internal/infrastructure/scraper"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")
)

type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

const (
	MessageQueryRequired = "Search query is required"
	MessageRateLimited   = "Rate limit exceeded"
	MessageMalformed     = "Invalid response format from scraper"
	MessageSearchFailed  = "Failed to fetch jobs"
)

// ErrorMessage is the caller-facing text for a Search error.
func ErrorMessage(err error) string {
	var upErr *scraper.UpstreamError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return MessageRateLimited
	case errors.Is(err, ErrInvalidInput):
		return MessageQueryRequired
	case errors.Is(err, scraper.ErrMalformedResponse):
		return MessageMalformed
	case errors.As(err, &upErr):
		return upErr.Error()
	default:
		return MessageSearchFailed
	}
}
