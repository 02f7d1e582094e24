package ui

import (
	"context"
	"errors"

	"job-board/internal/domain/job"
	"job-board/internal/usecase"
)

// ProxySearcher routes page searches through the same usecase as POST /api/jobs,
// so the page shares the API's rate limit and error messages.
type ProxySearcher struct {
	uc        usecase.JobSearchUsecase
	clientKey string
}

func NewProxySearcher(uc usecase.JobSearchUsecase, clientKey string) *ProxySearcher {
	return &ProxySearcher{uc: uc, clientKey: clientKey}
}

func (p *ProxySearcher) Search(ctx context.Context, query, location string) (job.SearchResult, error) {
	out, err := p.uc.Search(ctx, usecase.JobSearchParams{ClientKey: p.clientKey, Query: query, Location: location})
	if err != nil {
		return job.SearchResult{}, errors.New(usecase.ErrorMessage(err))
	}
	return out.Result, nil
}

var _ Searcher = (*ProxySearcher)(nil)
