package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"job-board/internal/cli"
	"job-board/internal/config"
	"job-board/internal/infrastructure/scraper"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	root := &cli.CLI{}
	parser, err := kong.New(root,
		kong.Name("jobsearch"),
		kong.Description("Search jobs through the scraper service."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := config.LoadScraper()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.New(io.Discard, "", log.LstdFlags)
	if root.Verbose {
		logger.SetOutput(os.Stderr)
	}

	runCtx := &cli.Context{
		Ctx:        ctx,
		Out:        os.Stdout,
		Scraper:    scraper.NewScraperClient(cfg.BaseURL, cfg.NumJobs, cfg.Timeout, logger),
		BaseURL:    cfg.BaseURL,
		JSONOutput: root.JSON,
	}

	if err := kctx.Run(runCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
