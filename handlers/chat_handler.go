package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pdfchat_backend/models"
	"pdfchat_backend/services"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	user := CurrentUser(c)
	docID := c.Params("doc_id")

	var req models.AskReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question required"})
	}

	resp, err := h.chatService.Ask(c.Context(), user.ID, docID, &req)
	if err != nil {
		return docError(c, err)
	}
	return c.JSON(resp)
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	docID := c.Params("doc_id")
	nodeID := c.Params("node_id")

	nodes, err := h.chatService.GetHistory(c.Context(), docID, nodeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load history"})
	}
	return c.JSON(nodes)
}

func (h *ChatHandler) Children(c *fiber.Ctx) error {
	docID := c.Params("doc_id")
	nodeID := c.Params("node_id")

	nodes, err := h.chatService.GetChildren(c.Context(), docID, nodeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load children"})
	}
	return c.JSON(nodes)
}
