package handler

import (
	"strconv"

	"govtjobs/internal/delivery/http/dto"
	"govtjobs/internal/delivery/http/middleware"
	"govtjobs/internal/orglogo"
	"govtjobs/internal/pkg/response"
	"govtjobs/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobsHandler struct {
	uc   usecase.JobSearchUsecase
	apps usecase.ApplicationUsecase
}

func NewJobsHandler(uc usecase.JobSearchUsecase, apps usecase.ApplicationUsecase) *JobsHandler {
	return &JobsHandler{uc: uc, apps: apps}
}

// RegisterRoutes mounts the enveloped /api/v1 job routes. identify runs
// before the apply endpoint to attach an optional caller identity.
func (h *JobsHandler) RegisterRoutes(r fiber.Router, identify fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.Search)
	r.Get("/jobs/:id", h.GetJob)
	if identify != nil {
		r.Post("/jobs/:id/apply", identify, h.Apply)
	} else {
		r.Post("/jobs/:id/apply", h.Apply)
	}
	r.Get("/filters", h.Filters)
	r.Get("/departments/logo", h.DepartmentLogo)
}

// PortalSearch serves GET /api/jobs. The body is a bare array of jobs; paging
// metadata travels in X-Total-Count, X-Total-Pages, X-Page and X-Limit.
func (h *JobsHandler) PortalSearch(c fiber.Ctx) error {
	res, err := h.search(c)
	if err != nil {
		return err
	}
	c.Set("X-Total-Count", strconv.Itoa(res.Total))
	c.Set("X-Total-Pages", strconv.Itoa(res.TotalPages))
	c.Set("X-Page", strconv.Itoa(res.Page))
	c.Set("X-Limit", strconv.Itoa(res.Limit))
	return c.Status(fiber.StatusOK).JSON(res.Jobs)
}

func (h *JobsHandler) Search(c fiber.Ctx) error {
	res, err := h.search(c)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *JobsHandler) search(c fiber.Ctx) (dto.JobListResponse, error) {
	params, err := parseSearchParams(c)
	if err != nil {
		return dto.JobListResponse{}, badRequest("Invalid search parameters", err)
	}
	res, err := h.uc.Search(c.Context(), params)
	if err != nil {
		return dto.JobListResponse{}, mapJobError(err)
	}
	return dto.NewJobListResponse(res), nil
}

func (h *JobsHandler) GetJob(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest("Invalid job id", err)
	}
	j, err := h.uc.GetJob(c.Context(), id)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) Apply(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest("Invalid job id", err)
	}

	var userID *uuid.UUID
	if uid, ok := middleware.UserIDFromCtx(c); ok {
		userID = &uid
	}

	res, err := h.apps.Apply(c.Context(), id, userID)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.ApplyResponse{
		ApplicationID:   res.ApplicationID,
		JobID:           res.JobID,
		ApplicationLink: res.ApplicationLink,
	})
}

func (h *JobsHandler) Filters(c fiber.Ctx) error {
	opts, err := h.uc.FilterOptions(c.Context())
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, opts)
}

func (h *JobsHandler) DepartmentLogo(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, orglogo.Classify(c.Query("name")))
}
