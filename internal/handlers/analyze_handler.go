package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/services"
)

type AnalyzeHandler struct {
	sessions services.SessionStore
	worker   services.Worker
}

func NewAnalyzeHandler(sessions services.SessionStore, worker services.Worker) *AnalyzeHandler {
	return &AnalyzeHandler{
		sessions: sessions,
		worker:   worker,
	}
}

// HandleSetJobDescription handles PUT /sessions/:id/job-description
func (h *AnalyzeHandler) HandleSetJobDescription(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessions)
	if err != nil {
		return err
	}

	var req models.JobDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	session.SetJobDescription(req.JobDescription)
	return c.JSON(session.Snapshot())
}

// HandleAnalyze handles POST /sessions/:id/analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessions)
	if err != nil {
		return err
	}

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mode must be one of: full_analysis, keyword_extraction",
		})
	}

	mode := models.Mode(req.Mode)
	analysisReq, err := session.Begin(mode)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.worker.EnqueueJob(services.AnalysisJob{SessionID: session.ID, Request: analysisReq}); err != nil {
		session.Release()
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		SessionID: session.ID.String(),
		Mode:      string(mode),
		Status:    string(models.SessionProcessing),
	})
}
