package repository

import (
	"context"

	"pdfchat_backend/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.DocumentMeta) error

	GetByID(ctx context.Context, fileID string) (*models.DocumentMeta, error)
	GetByHash(ctx context.Context, userID, fileHash string) (*models.DocumentMeta, error)

	// ListByUser is the authoritative document list the monitor
	// reconciles against.
	ListByUser(ctx context.Context, userID string) ([]*models.DocumentMeta, error)
	ListNonTerminal(ctx context.Context) ([]*models.DocumentMeta, error)

	UpdateStatus(ctx context.Context, fileID string, status models.ProcessingStatus, processingError string) error
	UpdateRoot(ctx context.Context, fileID string, rootID string) error

	Delete(ctx context.Context, fileID string) error
}

type ChatRepository interface {
	Create(ctx context.Context, node *models.ChatNode) error
	GetChatHistory(ctx context.Context, fileID string, nodeID string) ([]*models.ChatNode, error)
	GetChatChildren(ctx context.Context, fileID string, nodeID string) ([]*models.ChatNode, error)
	GetNodeByID(ctx context.Context, nodeID string, fileID string) (*models.ChatNode, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
