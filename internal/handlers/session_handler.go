package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/repositories"
	"alfredoptarigan/ats-analyzer/internal/services"
)

const runsPageSize = 50

type SessionHandler struct {
	sessions services.SessionStore
	runRepo  repositories.AnalysisRunRepository
}

func NewSessionHandler(sessions services.SessionStore, runRepo repositories.AnalysisRunRepository) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		runRepo:  runRepo,
	}
}

// HandleCreate handles POST /sessions
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	session := h.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(models.CreateSessionResponse{
		ID: session.ID.String(),
	})
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessions)
	if err != nil {
		return err
	}
	return c.JSON(session.Snapshot())
}

// HandleDelete handles DELETE /sessions/:id
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := sessionIDParam(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Delete(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListRuns handles GET /sessions/:id/runs
func (h *SessionHandler) HandleListRuns(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessions)
	if err != nil {
		return err
	}

	runs, err := h.runRepo.FindBySession(session.ID, runsPageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analysis runs",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": session.ID.String(),
		"runs":       runs,
	})
}

// HandleGetRun handles GET /sessions/:id/runs/:runID
func (h *SessionHandler) HandleGetRun(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessions)
	if err != nil {
		return err
	}

	runID, err := uuid.Parse(c.Params("runID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid run ID format")
	}

	run, err := h.runRepo.FindByID(runID)
	if err != nil {
		if errors.Is(err, repositories.ErrRunNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Analysis run not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analysis run",
		})
	}
	// Runs of other sessions are not visible through this one
	if run.SessionID != session.ID {
		return fiber.NewError(fiber.StatusNotFound, "Analysis run not found")
	}

	return c.JSON(run)
}
