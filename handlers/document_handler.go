package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pdfchat_backend/models"
	"pdfchat_backend/services"
)

type DocHandler struct {
	docService *services.DocumentService
}

func NewDocHandler(docService *services.DocumentService) *DocHandler {
	return &DocHandler{docService: docService}
}

func (h *DocHandler) Upload(c *fiber.Ctx) error {
	user := CurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}

	resp, err := h.docService.Upload(c.Context(), user.ID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrUnsupportedType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
		}
	}
	return c.JSON(resp)
}

func (h *DocHandler) List(c *fiber.Ctx) error {
	user := CurrentUser(c)
	resp, err := h.docService.List(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list documents"})
	}
	return c.JSON(resp)
}

func (h *DocHandler) Status(c *fiber.Ctx) error {
	user := CurrentUser(c)
	docID := c.Params("doc_id")

	resp, err := h.docService.Status(c.Context(), user.ID, docID)
	if err != nil {
		return docError(c, err)
	}
	return c.JSON(resp)
}

func (h *DocHandler) Delete(c *fiber.Ctx) error {
	user := CurrentUser(c)
	docID := c.Params("doc_id")

	if err := h.docService.Delete(c.Context(), user.ID, docID); err != nil {
		return docError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "PDF deleted successfully"})
}

func (h *DocHandler) Reprocess(c *fiber.Ctx) error {
	user := CurrentUser(c)
	docID := c.Params("doc_id")

	if err := h.docService.Reprocess(c.Context(), user.ID, docID); err != nil {
		return docError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "doc_id": docID, "status": models.StatusPending})
}

func docError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PDF not found"})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PDF not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
