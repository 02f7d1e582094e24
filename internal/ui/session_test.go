package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-board/internal/domain/job"
)

type stubSearcher struct {
	calls  int
	result job.SearchResult
	err    error
	block  chan struct{}
}

func (s *stubSearcher) Search(ctx context.Context, query, location string) (job.SearchResult, error) {
	s.calls++
	if s.block != nil {
		<-s.block
	}
	return s.result, s.err
}

func threeJobResult() job.SearchResult {
	return job.SearchResult{
		Jobs: []job.Job{
			{ID: "1", Title: "Go Engineer", URL: "https://example.com/1"},
			{ID: "2", Title: "SRE", URL: "https://example.com/2"},
			{ID: "3", Title: "Backend Dev", URL: "https://example.com/3"},
		},
		TotalResults: 3,
		SearchTime:   1.2,
	}
}

func TestSession_BlankQueryNeverSearches(t *testing.T) {
	s := &stubSearcher{}
	var states []State
	sess := NewSession(s, func(v View) { states = append(states, v.State) })

	v := sess.Submit(context.Background(), "   ", "Berlin")
	if v.State != StateError || v.Message != ValidationMessage {
		t.Fatalf("expected validation error, got %+v", v)
	}
	if s.calls != 0 {
		t.Fatalf("expected no search call, got %d", s.calls)
	}
	if len(states) != 1 || states[0] != StateError {
		t.Fatalf("expected single Error transition, got %v", states)
	}
}

func TestSession_LoadingThenSuccess(t *testing.T) {
	s := &stubSearcher{result: threeJobResult()}
	var states []State
	sess := NewSession(s, func(v View) { states = append(states, v.State) })

	if sess.View().State != StateIdle {
		t.Fatalf("expected idle initial state")
	}

	v := sess.Submit(context.Background(), "go", "")
	if v.State != StateSuccess {
		t.Fatalf("expected success, got %s", v.State)
	}
	if len(v.Jobs) != 3 || v.Stats == nil || v.Stats.TotalResults != 3 || v.Stats.SearchTime != 1.2 {
		t.Fatalf("unexpected view %+v", v)
	}
	if len(states) != 2 || states[0] != StateLoading || states[1] != StateSuccess {
		t.Fatalf("expected Loading->Success, got %v", states)
	}
}

func TestSession_LoadingThenError(t *testing.T) {
	s := &stubSearcher{err: errors.New("Rate limit exceeded")}
	sess := NewSession(s, nil)

	v := sess.Submit(context.Background(), "go", "")
	if v.State != StateError || v.Message != "Rate limit exceeded" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestSession_ResubmitFromAnyState(t *testing.T) {
	s := &stubSearcher{err: errors.New("boom")}
	sess := NewSession(s, nil)

	sess.Submit(context.Background(), "go", "")
	s.err = nil
	s.result = threeJobResult()

	if v := sess.Submit(context.Background(), "go", ""); v.State != StateSuccess {
		t.Fatalf("expected Error->Loading->Success, got %s", v.State)
	}
}

func TestSession_SupersededResultDropped(t *testing.T) {
	slow := &stubSearcher{result: threeJobResult(), block: make(chan struct{})}
	sess := NewSession(slow, nil)

	done := make(chan View)
	go func() { done <- sess.Submit(context.Background(), "go", "") }()

	for sess.View().State != StateLoading {
		time.Sleep(time.Millisecond)
	}
	sess.Submit(context.Background(), "", "")
	close(slow.block)

	<-done
	if v := sess.View(); v.State != StateError || v.Message != ValidationMessage {
		t.Fatalf("expected newer submit to win, got %+v", v)
	}
}
