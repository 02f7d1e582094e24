package handler

import (
	"job-board/internal/delivery/http/middleware"
	"job-board/internal/pkg/response"
	"job-board/internal/ui"

	"github.com/gofiber/fiber/v3"
)

type UIHandler struct {
	renderer *ui.Renderer
}

func NewUIHandler(renderer *ui.Renderer) *UIHandler {
	return &UIHandler{renderer: renderer}
}

func (h *UIHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.HandlePage)
}

func (h *UIHandler) HandlePage(c fiber.Ctx) error {
	page, err := h.renderer.Page(ui.View{State: ui.StateIdle})
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", err)
	}
	return response.HTML(c, fiber.StatusOK, page)
}
