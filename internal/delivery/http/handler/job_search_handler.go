package handler

import (
	"errors"
	"math"
	"strconv"

	"job-board/internal/delivery/http/middleware"
	"job-board/internal/pkg/response"
	"job-board/internal/ratelimit"
	"job-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobSearchHandler struct {
	uc usecase.JobSearchUsecase
}

type searchJobsRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

func NewJobSearchHandler(uc usecase.JobSearchUsecase) *JobSearchHandler {
	return &JobSearchHandler{uc: uc}
}

func (h *JobSearchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/jobs", h.HandleSearch)
}

func (h *JobSearchHandler) HandleSearch(c fiber.Ctx) error {
	var req searchJobsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	out, err := h.uc.Search(c.Context(), usecase.JobSearchParams{
		ClientKey: ratelimit.ClientKey(c.Get(fiber.HeaderXForwardedFor)),
		Query:     req.Query,
		Location:  req.Location,
	})
	if err != nil {
		var rlErr *usecase.RateLimitError
		if errors.As(err, &rlErr) && rlErr.RetryAfter > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(rlErr.RetryAfter.Seconds()))))
		}
		return mapJobSearchUsecaseError(err)
	}

	return response.Raw(c, fiber.StatusOK, out.Raw)
}

func mapJobSearchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	msg := usecase.ErrorMessage(err)
	switch {
	case errors.Is(err, usecase.ErrRateLimited):
		return middleware.NewAppError(fiber.StatusTooManyRequests, msg, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, msg, err)
	default:
		// upstream, malformed body and anything unexpected
		return middleware.NewAppError(fiber.StatusInternalServerError, msg, err)
	}
}
