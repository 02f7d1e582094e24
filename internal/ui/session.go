// Package ui holds the search page state machine and its HTML rendering.
package ui

import (
	"context"
	"strings"
	"sync"

	"job-board/internal/domain/job"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

const ValidationMessage = "Please enter a job title or keyword"

type Stats struct {
	TotalResults int
	SearchTime   float64
}

type View struct {
	State    State
	Query    string
	Location string
	Jobs     []job.Job
	Stats    *Stats
	Message  string
}

type Searcher interface {
	Search(ctx context.Context, query, location string) (job.SearchResult, error)
}

// Session is one browser tab's search state. onChange runs with the session
// lock held, so it must not block or call back into the session.
type Session struct {
	mu       sync.Mutex
	searcher Searcher
	onChange func(View)
	view     View
	gen      uint64
}

func NewSession(searcher Searcher, onChange func(View)) *Session {
	return &Session{searcher: searcher, onChange: onChange, view: View{State: StateIdle}}
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Submit blocks until the search settles and returns the resulting view. A
// newer Submit supersedes an in-flight one; the older result is dropped.
func (s *Session) Submit(ctx context.Context, query, location string) View {
	if strings.TrimSpace(query) == "" {
		s.mu.Lock()
		s.gen++
		s.setLocked(View{State: StateError, Query: query, Location: location, Message: ValidationMessage})
		v := s.view
		s.mu.Unlock()
		return v
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.setLocked(View{State: StateLoading, Query: query, Location: location})
	s.mu.Unlock()

	res, err := s.searcher.Search(ctx, query, location)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return s.view
	}
	if err != nil {
		s.setLocked(View{State: StateError, Query: query, Location: location, Message: err.Error()})
		return s.view
	}
	s.setLocked(View{
		State:    StateSuccess,
		Query:    query,
		Location: location,
		Jobs:     res.Jobs,
		Stats:    &Stats{TotalResults: res.TotalResults, SearchTime: res.SearchTime},
	})
	return s.view
}

func (s *Session) setLocked(v View) {
	s.view = v
	if s.onChange != nil {
		s.onChange(v)
	}
}
