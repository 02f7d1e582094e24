// Package cli implements the jobsearch command-line client for the scraper.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"job-board/internal/domain/job"
	"job-board/internal/infrastructure/scraper"
)

type CLI struct {
	JSON    bool `help:"Print the raw scraper response as JSON."`
	Verbose bool `help:"Log scraper requests to stderr."`

	Search SearchCmd `cmd:"" help:"Search job listings through the scraper."`
	Health HealthCmd `cmd:"" help:"Check that the scraper is reachable."`
}

type Context struct {
	Ctx        context.Context
	Out        io.Writer
	Scraper    scraper.ScraperClient
	BaseURL    string
	JSONOutput bool
}

var errQueryRequired = errors.New("search query is required")

type SearchCmd struct {
	Query    string `arg:"" help:"Job title or keyword."`
	Location string `help:"Job location." env:"JOBSEARCH_LOCATION"`
}

func (s *SearchCmd) Run(ctx *Context) error {
	q := strings.TrimSpace(s.Query)
	if q == "" {
		return errQueryRequired
	}
	if ctx.Scraper == nil {
		return errors.New("SCRAPER_BASE_URL is not configured")
	}

	out, err := ctx.Scraper.SearchJobs(ctx.context(), job.SearchQuery{Query: q, Location: strings.TrimSpace(s.Location)})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if ctx.JSONOutput {
		_, err := fmt.Fprintf(ctx.Out, "%s\n", out.Raw)
		return err
	}
	return writeTable(ctx.Out, out.Result)
}

type HealthCmd struct{}

func (h *HealthCmd) Run(ctx *Context) error {
	if ctx.Scraper == nil {
		return errors.New("SCRAPER_BASE_URL is not configured")
	}
	if err := ctx.Scraper.Health(ctx.context()); err != nil {
		return fmt.Errorf("scraper down at %s: %w", ctx.BaseURL, err)
	}
	_, err := fmt.Fprintf(ctx.Out, "scraper up at %s\n", ctx.BaseURL)
	return err
}

func (c *Context) context() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}

func writeTable(w io.Writer, res job.SearchResult) error {
	if len(res.Jobs) == 0 {
		_, err := fmt.Fprintln(w, "No jobs found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCOMPANY\tLOCATION\tPOSTED\tURL")
	for _, j := range res.Jobs {
		posted := j.PostedDate
		if t, ok := j.PostedAt(); ok {
			posted = t.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", j.Title, j.Company, j.Location, posted, j.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nFound %d jobs in %.2f seconds\n", res.TotalResults, res.SearchTime)
	return err
}
