package routes

import (
	"github.com/gofiber/fiber/v2"

	"pdfchat_backend/handlers"
)

func RegisterAuthRoutes(app *fiber.App, handler *handlers.AuthHandler, auth fiber.Handler) {
	authGroup := app.Group("/api/auth")
	authGroup.Post("/signup", handler.Signup)
	authGroup.Post("/login", handler.Login)
	authGroup.Get("/me", auth, handler.Me)
}
