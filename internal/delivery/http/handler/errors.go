package handler

import (
	"errors"

	"govtjobs/internal/delivery/http/middleware"
	"govtjobs/internal/domain/job"
	"govtjobs/internal/pkg/response"
	"govtjobs/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func mapJobError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, job.ErrInvalidParam), errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid search parameters", nil, err)
	case errors.Is(err, job.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, job.ErrInvalidJob):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid job", nil, err)
	case errors.Is(err, job.ErrJobExpired):
		return middleware.NewAppError(fiber.StatusGone, "Application deadline has passed", nil, err)
	case errors.Is(err, job.ErrJobInactive):
		return middleware.NewAppError(fiber.StatusGone, "Job is no longer open", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(msg string, err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, err)
}
