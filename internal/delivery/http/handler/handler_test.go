package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"job-board/internal/delivery/http/middleware"
	"job-board/internal/infrastructure/scraper"
	"job-board/internal/ratelimit"
	"job-board/internal/ui"
	"job-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const threeJobs = `{"jobs":[` +
	`{"id":"1","title":"Go Engineer","company":"Acme","location":"Berlin","description":"d","postedDate":"2024-05-01T00:00:00","url":"https://example.com/1"},` +
	`{"id":"2","title":"SRE","company":"Initech","location":"Remote","description":"d","postedDate":"2024-05-02T00:00:00","url":"https://example.com/2"},` +
	`{"id":"3","title":"Backend Dev","company":"Globex","location":"Paris","description":"d","postedDate":"2024-05-03T00:00:00","url":"https://example.com/3"}` +
	`],"total_results":3,"search_time":1.2,"query":"go","location":null}`

type errorBody struct {
	Error string `json:"error"`
}

func newSearchApp(t *testing.T, upstream http.HandlerFunc) (*fiber.App, *atomic.Int32) {
	t.Helper()

	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := log.New(io.Discard, "", 0)
	sc := scraper.NewScraperClient(srv.URL, 10, 5*time.Second, logger)
	lim := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), ratelimit.DefaultWindow, logger)
	uc := usecase.NewJobSearchUsecase(sc, lim, 10, logger)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	NewJobSearchHandler(uc).RegisterRoutes(app.Group("/api"))
	return app, calls
}

func postJobs(t *testing.T, app *fiber.App, body string, forwardedFor string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func decodeError(t *testing.T, b []byte) string {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("decode error body %q: %v", b, err)
	}
	return e.Error
}

func okUpstream(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(threeJobs))
}

func TestHandleSearch_SuccessVerbatim(t *testing.T) {
	app, calls := newSearchApp(t, okUpstream)

	resp, b := postJobs(t, app, `{"query":"go"}`, "1.1.1.1")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.StatusCode, b)
	}
	if string(b) != threeJobs {
		t.Fatalf("expected verbatim upstream body, got %s", b)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls.Load())
	}
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	app, calls := newSearchApp(t, okUpstream)

	resp, b := postJobs(t, app, `{"query":""}`, "1.1.1.1")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if msg := decodeError(t, b); msg != "Search query is required" {
		t.Fatalf("unexpected error %q", msg)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no upstream call, got %d", calls.Load())
	}
}

func TestHandleSearch_InvalidBody(t *testing.T) {
	app, calls := newSearchApp(t, okUpstream)

	resp, b := postJobs(t, app, `{"query":`, "1.1.1.1")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if msg := decodeError(t, b); msg != "Invalid request body" {
		t.Fatalf("unexpected error %q", msg)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no upstream call")
	}
}

func TestHandleSearch_RateLimited(t *testing.T) {
	app, calls := newSearchApp(t, okUpstream)

	if resp, _ := postJobs(t, app, `{"query":"go"}`, "9.9.9.9"); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected first 200, got %d", resp.StatusCode)
	}

	resp, b := postJobs(t, app, `{"query":"go"}`, "9.9.9.9")
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if msg := decodeError(t, b); msg != "Rate limit exceeded" {
		t.Fatalf("unexpected error %q", msg)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	if resp, _ := postJobs(t, app, `{"query":"go"}`, "8.8.8.8"); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected other client 200, got %d", resp.StatusCode)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestHandleSearch_MissingForwardedForSharesUnknownKey(t *testing.T) {
	app, _ := newSearchApp(t, okUpstream)

	if resp, _ := postJobs(t, app, `{"query":"go"}`, ""); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected first 200, got %d", resp.StatusCode)
	}
	if resp, _ := postJobs(t, app, `{"query":"go"}`, ""); resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 for second unknown client, got %d", resp.StatusCode)
	}
}

func TestHandleSearch_UpstreamDetail(t *testing.T) {
	app, _ := newSearchApp(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"x"}`))
	})

	resp, b := postJobs(t, app, `{"query":"go"}`, "1.1.1.1")
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if msg := decodeError(t, b); msg != "x" {
		t.Fatalf("expected upstream detail, got %q", msg)
	}
}

func TestHandleSearch_UpstreamWithoutJobs(t *testing.T) {
	app, _ := newSearchApp(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	resp, b := postJobs(t, app, `{"query":"go"}`, "1.1.1.1")
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if msg := decodeError(t, b); msg != "Invalid response format from scraper" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestHandleSearch_LooselyTypedBodyRelayedUnchanged(t *testing.T) {
	bodies := []string{
		`{"jobs":[{"id":7,"title":"Go"}],"total_results":1,"search_time":1.2}`,
		`{"jobs":[],"total_results":"3","search_time":1.2}`,
	}
	for _, body := range bodies {
		app, _ := newSearchApp(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		resp, b := postJobs(t, app, `{"query":"go"}`, "1.1.1.1")
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("body %s: expected 200, got %d %s", body, resp.StatusCode, b)
		}
		if string(b) != body {
			t.Fatalf("expected verbatim body %s, got %s", body, b)
		}
	}
}

func TestHandleSearch_NullJobsRejected(t *testing.T) {
	app, _ := newSearchApp(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"jobs":null}`))
	})

	resp, b := postJobs(t, app, `{"query":"go"}`, "1.1.1.1")
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if msg := decodeError(t, b); msg != "Invalid response format from scraper" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestMapJobSearchUsecaseError_Unexpected(t *testing.T) {
	err := mapJobSearchUsecaseError(errors.New("boom"))
	var appErr *middleware.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError")
	}
	if appErr.StatusCode != fiber.StatusInternalServerError || appErr.Message != "Failed to fetch jobs" {
		t.Fatalf("unexpected mapping %+v", appErr)
	}
}

type stubHealth struct{ err error }

func (s stubHealth) Health(context.Context) error { return s.err }

type stubCounter int

func (s stubCounter) ClientCount() int { return int(s) }

type stubCache struct {
	available bool
	err       error
}

func (s stubCache) Available() bool { return s.available }
func (s stubCache) Ping(context.Context) error { return s.err }

func TestHandleHealth(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		cache     stubCache
		want      string
		wantRedis string
	}{
		{"up", nil, stubCache{available: true}, "up", "up"},
		{"down", errors.New("refused"), stubCache{available: true, err: errors.New("timeout")}, "down", "down"},
		{"no cache", nil, stubCache{}, "up", "disabled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(stubHealth{err: tc.err}, stubCounter(2), tc.cache).RegisterRoutes(app)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			if err != nil {
				t.Fatalf("request error: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			var out healthResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Status != "healthy" || out.Scraper != tc.want || out.Redis != tc.wantRedis || out.UIClients != 2 {
				t.Fatalf("unexpected health %+v", out)
			}
		})
	}
}

func TestHandlePage(t *testing.T) {
	renderer, err := ui.NewRenderer("Job Board", "")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	app := fiber.New()
	NewUIHandler(renderer).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(b), `data-state="idle"`) {
		t.Fatalf("expected idle results section")
	}
}
