package app

import (
	"log"

	"job-board/internal/config"
	"job-board/internal/infrastructure/cache"
	"job-board/internal/infrastructure/scraper"
	"job-board/internal/ratelimit"
	"job-board/internal/ui"
	"job-board/internal/usecase"
	"job-board/internal/ws"
)

type Container struct {
	Config   config.Config
	Logger   *log.Logger
	Redis    *cache.Redis
	Scraper  scraper.ScraperClient
	// Memory is the in-process limiter state the pruner sweeps: the primary
	// store, or the redis store's fallback.
	Memory   *ratelimit.MemoryStore
	Limiter  *ratelimit.Limiter
	Search   *usecase.JobSearch
	Hub      *ws.Hub
	Renderer *ui.Renderer
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	renderer, err := ui.NewRenderer(cfg.App.AppName, ui.DefaultSocketPath)
	if err != nil {
		return nil, err
	}

	rdb := cache.NewRedis(cfg.Redis, logger)

	var store ratelimit.Store
	var memory *ratelimit.MemoryStore
	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendRedis:
		rs := ratelimit.NewRedisStore(rdb)
		store = rs
		memory = rs.Fallback()
	default:
		memory = ratelimit.NewMemoryStore()
		store = memory
	}
	limiter := ratelimit.NewLimiter(store, cfg.RateLimit.Window, logger)

	sc := scraper.NewScraperClient(cfg.Scraper.BaseURL, cfg.Scraper.NumJobs, cfg.Scraper.Timeout, logger)

	var opts []usecase.JobSearchOption
	if rdb.Available() {
		opts = append(opts, usecase.WithSearchCache(rdb, cfg.Redis.CacheTTL))
	}
	search := usecase.NewJobSearchUsecase(sc, limiter, cfg.Scraper.NumJobs, logger, opts...)

	logger.Printf("[App] container ready scraper=%s rate_limit=%s window=%s cache=%t",
		cfg.Scraper.BaseURL, cfg.RateLimit.Backend, cfg.RateLimit.Window, rdb.Available())

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Redis:    rdb,
		Scraper:  sc,
		Memory:   memory,
		Limiter:  limiter,
		Search:   search,
		Hub:      ws.NewHub(logger),
		Renderer: renderer,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	return c.Redis.Close()
}
