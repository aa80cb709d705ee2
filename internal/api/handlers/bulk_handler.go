package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/postdeck/postdeck/internal/service"
)

type BulkHandler struct {
	s service.BulkService
}

func NewBulkHandler(service service.BulkService) *BulkHandler {
	return &BulkHandler{s: service}
}

// ImportCSV parses an uploaded schedule file into draft posts. Nothing
// is persisted here: the client reviews the drafts and submits each one
// through the regular create endpoint.
func (h *BulkHandler) ImportCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to open uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read uploaded file",
		})
	}

	drafts, err := h.s.ParseCSV(data)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(drafts)
}
