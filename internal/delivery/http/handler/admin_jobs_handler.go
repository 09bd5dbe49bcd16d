package handler

import (
	"errors"

	"govtjobs/internal/delivery/http/dto"
	"govtjobs/internal/delivery/http/middleware"
	"govtjobs/internal/pkg/response"
	"govtjobs/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminJobsHandler struct {
	uc usecase.AdminJobUsecase
}

func NewAdminJobsHandler(uc usecase.AdminJobUsecase) *AdminJobsHandler {
	return &AdminJobsHandler{uc: uc}
}

// RegisterRoutes expects r to be guarded by the admin middleware.
func (h *AdminJobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.List)
	r.Post("/jobs", h.Create)
	r.Get("/jobs/:id", h.Get)
	r.Put("/jobs/:id", h.Update)
	r.Delete("/jobs/:id", h.Delete)
	r.Post("/jobs/:id/deactivate", h.Deactivate)
	r.Get("/scrape-runs", h.ScrapeRuns)
}

func (h *AdminJobsHandler) List(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 0)
	if err != nil {
		return badRequest("Invalid page", err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return badRequest("Invalid limit", err)
	}

	res, err := h.uc.List(c.Context(), usecase.AdminListParams{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAdminJobListResponse(res))
}

func (h *AdminJobsHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest("Invalid job id", err)
	}
	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAdminJobResponse(j))
}

func (h *AdminJobsHandler) Create(c fiber.Ctx) error {
	in, err := bindJobRequest(c)
	if err != nil {
		return err
	}
	j, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewAdminJobResponse(j))
}

func (h *AdminJobsHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest("Invalid job id", err)
	}
	in, err := bindJobRequest(c)
	if err != nil {
		return err
	}
	j, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAdminJobResponse(j))
}

func (h *AdminJobsHandler) Deactivate(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest("Invalid job id", err)
	}
	j, err := h.uc.Deactivate(c.Context(), id)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAdminJobResponse(j))
}

func (h *AdminJobsHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest("Invalid job id", err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapJobError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func bindJobRequest(c fiber.Ctx) (usecase.JobInput, error) {
	var req dto.JobRequest
	if err := c.Bind().Body(&req); err != nil {
		return usecase.JobInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	in, err := req.ToInput()
	if err != nil {
		if errors.Is(err, dto.ErrInvalidDate) {
			return usecase.JobInput{}, middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
		}
		return usecase.JobInput{}, badRequest("Invalid request payload", err)
	}
	return in, nil
}

func (h *AdminJobsHandler) ScrapeRuns(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return badRequest("Invalid limit", err)
	}
	runs, err := h.uc.ScrapeRuns(c.Context(), limit)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewScrapeRunResponses(runs))
}
