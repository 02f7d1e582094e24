package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"job-board/internal/config"
	"job-board/internal/delivery/http/handler"
	"job-board/internal/delivery/http/middleware"
	"job-board/internal/delivery/http/routes"
	"job-board/internal/ui"
	"job-board/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and app and starts background workers. The
// returned cleanup stops them and releases the container.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go c.Hub.Run(ctx)
	if c.Memory != nil {
		go c.Memory.RunPruner(ctx, c.Limiter.Window(), c.Limiter.Window(), c.Logger)
	}

	app := New(c)
	cleanup := func() error {
		cancel()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())

	if origins := c.Config.CORS.AllowOrigins; len(origins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
			AllowHeaders: []string{fiber.HeaderContentType},
		}))
	}
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	socket := ws.NewHandler(c.Hub, c.Renderer, func(clientKey string) ui.Searcher {
		return ui.NewProxySearcher(c.Search, clientKey)
	}, c.Config.CORS.AllowOrigins, c.Logger)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.Scraper, c.Hub, c.Redis),
		handler.NewJobSearchHandler(c.Search),
		handler.NewUIHandler(c.Renderer),
		socket,
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
