package handler

import (
	"govtjobs/internal/pkg/response"
	"govtjobs/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type StatsHandler struct {
	uc usecase.StatsUsecase
}

func NewStatsHandler(uc usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

func (h *StatsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/stats", h.Stats)
}

// Portal serves GET /api/stats with the bare counters object.
func (h *StatsHandler) Portal(c fiber.Ctx) error {
	s, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return mapJobError(err)
	}
	return c.Status(fiber.StatusOK).JSON(s)
}

func (h *StatsHandler) Stats(c fiber.Ctx) error {
	s, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}
