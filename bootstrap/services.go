package bootstrap

import (
	"context"

	"pdfchat_backend/config"
	"pdfchat_backend/monitor"
	"pdfchat_backend/services"
)

type Services struct {
	AuthService       *services.AuthService
	DocService        *services.DocumentService
	ChatsService      *services.ChatService
	ResolutionService *services.ResolutionService
	Monitor           *monitor.Monitor
}

func NewServices(cfg *config.Config, repos *Repositories, infra *Infrastructure) *Services {
	res := &Services{}

	authService := services.NewAuthService(repos.UserRepository, cfg.JWTSecret, cfg.TokenTTL)
	res.AuthService = authService

	// terminal transitions land here: DB update, status cache, browser push
	resolutionService := services.NewResolutionService(repos.DocumentRepository, infra.EventPublisher, infra.Cache)
	res.ResolutionService = resolutionService

	// the engine client returns its concrete stream type, so adapt it
	opener := monitor.StreamOpenerFunc(func(ctx context.Context, docID string) (monitor.StatusStream, error) {
		return infra.Engine.OpenStatusStream(ctx, docID)
	})
	mon := monitor.New(opener, infra.Engine, resolutionService, cfg.PollTimeout)
	res.Monitor = mon

	docService := services.NewDocumentService(repos.DocumentRepository, infra.Queue, infra.Storage, infra.Cache, infra.Engine, mon, cfg.MaxFileSize)
	res.DocService = docService

	chatService := services.NewChatService(repos.ChatRepository, repos.DocumentRepository, infra.Cache, infra.Engine)
	res.ChatsService = chatService

	return res
}
