package handler

import (
	"strings"
	"time"

	"govtjobs/internal/delivery/http/middleware"
	"govtjobs/internal/logger"
	"govtjobs/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ScrapeCompletedRequest is posted by the scraper after each run.
type ScrapeCompletedRequest struct {
	RunID       string `json:"runId"`
	Source      string `json:"source"`
	Count       int    `json:"count"`
	CompletedAt string `json:"completedAt"`
}

type ScrapeCompletedHandler struct {
	uc     usecase.AdminJobUsecase
	logger logrus.FieldLogger
}

func NewScrapeCompletedHandler(uc usecase.AdminJobUsecase, log logrus.FieldLogger) *ScrapeCompletedHandler {
	return &ScrapeCompletedHandler{uc: uc, logger: logger.OrDiscard(log)}
}

// RegisterRoutes expects r to be guarded by middleware.InternalToken.
func (h *ScrapeCompletedHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/scrape-completed", h.HandleScrapeCompleted)
}

func (h *ScrapeCompletedHandler) HandleScrapeCompleted(c fiber.Ctx) error {
	var req ScrapeCompletedRequest
	if err := c.Bind().Body(&req); err != nil {
		h.logger.WithError(err).Warn("[Webhook] bad payload")
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	req.RunID = strings.TrimSpace(req.RunID)
	req.Source = strings.TrimSpace(req.Source)
	req.CompletedAt = strings.TrimSpace(req.CompletedAt)

	if req.Count < 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, nil)
	}
	if req.CompletedAt != "" {
		if _, err := time.Parse(time.RFC3339, req.CompletedAt); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	h.logger.WithFields(logrus.Fields{"run_id": req.RunID, "source": req.Source, "count": req.Count}).Info("[Webhook] scrape completed")
	h.uc.ScrapeCompleted(c.Context(), req.Source, req.Count)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "cache_invalidated",
		"source": req.Source,
		"count":  req.Count,
	})
}
