package routes

import (
	"job-board/internal/delivery/http/handler"
	"job-board/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health    *handler.HealthHandler
	jobSearch *handler.JobSearchHandler
	page      *handler.UIHandler
	socket    *ws.Handler
}

func NewRegistry(health *handler.HealthHandler, jobSearch *handler.JobSearchHandler, page *handler.UIHandler, socket *ws.Handler) *Registry {
	return &Registry{health: health, jobSearch: jobSearch, page: page, socket: socket}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerUI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	if r.jobSearch == nil {
		return
	}
	r.jobSearch.RegisterRoutes(app.Group("/api"))
}

func (r *Registry) registerUI(app *fiber.App) {
	if r.page != nil {
		r.page.RegisterRoutes(app)
	}
	if r.socket != nil {
		r.socket.RegisterRoutes(app)
	}
}
