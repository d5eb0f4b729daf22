package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Session *SessionHandler
	Upload  *UploadHandler
	Analyze *AnalyzeHandler
	Report  *ReportHandler
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	sessions := api.Group("/sessions")
	sessions.Post("/", h.Session.HandleCreate)
	sessions.Get("/:id", h.Session.HandleGet)
	sessions.Delete("/:id", h.Session.HandleDelete)
	sessions.Get("/:id/runs", h.Session.HandleListRuns)
	sessions.Get("/:id/runs/:runID", h.Session.HandleGetRun)
	sessions.Post("/:id/resume", h.Upload.HandleUploadResume)
	sessions.Put("/:id/job-description", h.Analyze.HandleSetJobDescription)
	sessions.Post("/:id/analyze", h.Analyze.HandleAnalyze)
	sessions.Get("/:id/report", h.Report.HandleReport)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ATS Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"DELETE /api/v1/sessions/:id",
				"POST /api/v1/sessions/:id/resume",
				"PUT /api/v1/sessions/:id/job-description",
				"POST /api/v1/sessions/:id/analyze",
				"GET /api/v1/sessions/:id/runs",
				"GET /api/v1/sessions/:id/runs/:runID",
				"GET /api/v1/sessions/:id/report",
			},
		})
	})
}
