package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-analyzer/internal/services"
)

type ReportHandler struct {
	sessions services.SessionStore
	renderer services.ReportRenderer
}

func NewReportHandler(sessions services.SessionStore, renderer services.ReportRenderer) *ReportHandler {
	return &ReportHandler{
		sessions: sessions,
		renderer: renderer,
	}
}

// HandleReport handles GET /sessions/:id/report?format=pdf|html
func (h *ReportHandler) HandleReport(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessions)
	if err != nil {
		return err
	}

	format := c.Query("format", "pdf")
	if format != "pdf" && format != "html" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be pdf or html",
		})
	}

	result := session.LatestAnalysis()
	if result == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No analysis result available for this session",
		})
	}

	html, err := services.RenderHTML(services.BuildReport(result, time.Now()))
	if err != nil {
		return err
	}

	if format == "html" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(html)
	}

	pdfBytes, err := h.renderer.RenderHTMLToPDF(c.UserContext(), html)
	if err != nil {
		log.Printf("❌ Failed to render PDF report for session %s: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render PDF report",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ats_analysis_%s.pdf"`, session.ID))
	return c.Send(pdfBytes)
}
