package bootstrap

import (
	"pdfchat_backend/platform/database"
	"pdfchat_backend/repository"
)

type Repositories struct {
	DocumentRepository repository.DocumentRepository
	ChatRepository     repository.ChatRepository
	UserRepository     repository.UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	sqlDB := db.GetDatabase()
	return &Repositories{
		DocumentRepository: repository.NewDocumentRepository(sqlDB),
		ChatRepository:     repository.NewChatRepository(sqlDB),
		UserRepository:     repository.NewUserRepository(sqlDB),
	}
}
