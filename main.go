package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"pdfchat_backend/bootstrap"
	"pdfchat_backend/config"
	"pdfchat_backend/middleware"
	"pdfchat_backend/pkg/logging"
	"pdfchat_backend/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	logging.Init()
	cfg := config.LoadConfig()

	application, err := bootstrap.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxFileSize) + 1024*1024,
	})
	app.Use(middleware.CORS())
	app.Use(middleware.Logger())

	auth := middleware.RequireAuth(application.Services.AuthService)
	routes.RegisterAuthRoutes(app, application.Handlers.AuthHandler, auth)
	routes.RegisterDocumentRoutes(app, application.Handlers.DocHandler, auth)
	routes.RegisterChatRoutes(app, application.Handlers.ChatHandler, auth)
	routes.RegisterAdminRoutes(app, application.Handlers.AdminHandler, auth)
	routes.SetupWebSocketRoutes(app, application.Handlers.WSHandler)

	application.Refresher.Start()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logging.Logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logging.Logger.Error("fail shutting down http server", "error", err)
		}
	}()

	port := cfg.HttpPort
	if port == "" {
		port = "3000"
	}
	logging.Logger.Info("server running", "port", port)
	if err := app.Listen(":" + port); err != nil {
		logging.Logger.Error("fail serving http", "error", err)
	}

	if err := application.Shutdown(); err != nil {
		logging.Logger.Error("fail shutting down app", "error", err)
	}
}
