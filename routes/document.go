package routes

import (
	"github.com/gofiber/fiber/v2"

	"pdfchat_backend/handlers"
)

func RegisterDocumentRoutes(app *fiber.App, handler *handlers.DocHandler, auth fiber.Handler) {
	document := app.Group("/api/pdfs", auth)
	document.Get("/", handler.List)
	document.Post("/upload", handler.Upload)
	document.Get("/:doc_id/status", handler.Status)
	document.Post("/:doc_id/reprocess", handler.Reprocess)
	document.Delete("/:doc_id", handler.Delete)
}
