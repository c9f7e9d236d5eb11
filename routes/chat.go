package routes

import (
	"github.com/gofiber/fiber/v2"

	"pdfchat_backend/handlers"
)

func RegisterChatRoutes(app *fiber.App, handler *handlers.ChatHandler, auth fiber.Handler) {
	chat := app.Group("/api/chat", auth)
	chat.Post("/:doc_id/ask", handler.Ask)
	chat.Get("/:doc_id/history/:node_id", handler.History)
	chat.Get("/:doc_id/children/:node_id", handler.Children)
}
