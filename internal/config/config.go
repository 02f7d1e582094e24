package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type Config struct {
	App       AppConfig
	Scraper   ScraperConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	CORS      CORSConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type ScraperConfig struct {
	BaseURL string
	Timeout time.Duration
	NumJobs int
}

type RateLimitConfig struct {
	Backend string
	Window  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	CacheTTL time.Duration
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type CORSConfig struct {
	AllowOrigins []string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	scraperCfg, err := LoadScraper()
	if err != nil {
		return Config{}, err
	}
	cfg.Scraper = scraperCfg

	var invalid []string
	windowMs := intOr("RATE_LIMIT_WINDOW_MS", 100000, &invalid)
	cfg.RateLimit = RateLimitConfig{
		Backend: strings.ToLower(optOr("RATE_LIMIT_BACKEND", RateLimitBackendMemory)),
		Window:  time.Duration(windowMs) * time.Millisecond,
	}
	switch cfg.RateLimit.Backend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		invalid = append(invalid, "RATE_LIMIT_BACKEND")
	}

	cacheTTL := intOr("REDIS_TTL", 600, &invalid)
	cfg.Redis = RedisConfig{
		Host:     optOr("REDIS_HOST", "localhost"),
		Port:     optOr("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		CacheTTL: time.Duration(cacheTTL) * time.Second,
	}

	cfg.CORS = CORSConfig{AllowOrigins: splitList(opt("CORS_ALLOW_ORIGINS"))}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// LoadScraper reads only the upstream settings, for tools that never serve HTTP.
func LoadScraper() (ScraperConfig, error) {
	var invalid []string
	timeoutSec := intOr("SCRAPER_TIMEOUT_SECONDS", 120, &invalid)
	numJobs := intOr("SCRAPER_NUM_JOBS", 10, &invalid)

	cfg := ScraperConfig{
		BaseURL: strings.TrimRight(optOr("SCRAPER_BASE_URL", "http://127.0.0.1:8000"), "/"),
		Timeout: time.Duration(timeoutSec) * time.Second,
		NumJobs: numJobs,
	}

	if len(invalid) > 0 {
		return ScraperConfig{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func opt(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func optOr(key, def string) string {
	if v := opt(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int, invalid *[]string) int {
	raw := opt(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		*invalid = append(*invalid, key)
		return def
	}
	return v
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
