package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-analyzer/internal/models"
	"alfredoptarigan/ats-analyzer/internal/services"
)

type UploadHandler struct {
	sessions      services.SessionStore
	uploadService services.UploadService
	pdfParser     services.PDFParserService
}

func NewUploadHandler(
	sessions services.SessionStore,
	uploadService services.UploadService,
	pdfParser services.PDFParserService,
) *UploadHandler {
	return &UploadHandler{
		sessions:      sessions,
		uploadService: uploadService,
		pdfParser:     pdfParser,
	}
}

// HandleUploadResume handles POST /sessions/:id/resume
func (h *UploadHandler) HandleUploadResume(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessions)
	if err != nil {
		return err
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume uploaded. Please upload a PDF as 'resume'.",
		})
	}

	upload, err := h.uploadService.ReadFile(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("📄 Extracting text from %s (%s)", upload.Filename, upload.MimeType)
	text, err := h.pdfParser.ExtractResumeText(upload.MimeType, upload.Data)
	if err != nil {
		log.Printf("❌ Failed to extract text from %s: %v", upload.Filename, err)
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	session.SetResume(upload.Filename, text)

	return c.JSON(models.UploadResponse{
		Filename:   upload.Filename,
		MimeType:   upload.MimeType,
		Characters: len([]rune(text)),
	})
}
