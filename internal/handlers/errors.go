package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/services"
)

var validate = validator.New()

// ErrorHandler renders every unhandled error as {"error": ..., "code": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func statusFor(err error) int {
	var (
		extractErr    *services.ExtractionError
		validationErr validator.ValidationErrors
	)

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrSessionBusy):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrQueueFull), errors.Is(err, services.ErrWorkerStopped):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, models.ErrInvalidRequest), errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.As(err, &extractErr):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func sessionIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session ID format")
	}
	return id, nil
}

func lookupSession(c *fiber.Ctx, sessions services.SessionStore) (*services.Session, error) {
	id, err := sessionIDParam(c)
	if err != nil {
		return nil, err
	}
	session, err := sessions.Get(id)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return session, nil
}
