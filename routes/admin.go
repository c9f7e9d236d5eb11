package routes

import (
	"github.com/gofiber/fiber/v2"

	"pdfchat_backend/handlers"
	"pdfchat_backend/middleware"
)

func RegisterAdminRoutes(app *fiber.App, handler *handlers.AdminHandler, auth fiber.Handler) {
	admin := app.Group("/api/admin", auth, middleware.RequireAdmin())
	admin.Get("/monitor", handler.MonitorStatus)
}
