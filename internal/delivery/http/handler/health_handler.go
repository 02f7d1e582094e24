package handler

import (
	"context"
	"time"

	"job-board/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

type clientCounter interface {
	ClientCount() int
}

type cachePinger interface {
	Available() bool
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	scraper healthChecker
	clients clientCounter
	cache   cachePinger
	timeout time.Duration
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Scraper   string `json:"scraper"`
	Redis     string `json:"redis"`
	UIClients int    `json:"ui_clients"`
}

func NewHealthHandler(scraper healthChecker, clients clientCounter, cache cachePinger) *HealthHandler {
	return &HealthHandler{scraper: scraper, clients: clients, cache: cache, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.HandleHealth)
}

// HandleHealth always answers 200; a down scraper is reported, not propagated.
func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	out := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Scraper:   "unknown",
		Redis:     "disabled",
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	if h.scraper != nil {
		if err := h.scraper.Health(ctx); err != nil {
			out.Scraper = "down"
		} else {
			out.Scraper = "up"
		}
	}
	if h.cache != nil && h.cache.Available() {
		if err := h.cache.Ping(ctx); err != nil {
			out.Redis = "down"
		} else {
			out.Redis = "up"
		}
	}
	if h.clients != nil {
		out.UIClients = h.clients.ClientCount()
	}

	return response.JSON(c, fiber.StatusOK, out)
}
