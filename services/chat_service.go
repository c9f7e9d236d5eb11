package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"pdfchat_backend/models"
	"pdfchat_backend/pkg/logging"
	"pdfchat_backend/platform/cache"
	"pdfchat_backend/repository"
)

type ChatService struct {
	chatRepo     repository.ChatRepository
	docRepo      repository.DocumentRepository
	cacheService cache.CacheService
	engine       Engine
}

func NewChatService(
	chatRepo repository.ChatRepository,
	docRepo repository.DocumentRepository,
	cacheService cache.CacheService,
	engine Engine) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		docRepo:      docRepo,
		cacheService: cacheService,
		engine:       engine,
	}
}

// Ask forwards the question to the engine's RAG endpoint and stores the
// exchange as a new node in the document's chat tree.
func (s *ChatService) Ask(ctx context.Context, userID, docID string, req *models.AskReq) (*models.AskResp, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		logging.Logger.Error("fail GetByID", "docID", docID, "error", err)
		return nil, err
	}
	if doc.UserID != userID {
		return nil, ErrNotOwner
	}

	answer, err := s.engine.Query(ctx, &models.QueryReq{Question: req.Question, UserID: userID})
	if err != nil {
		logging.Logger.Error("fail engine query", "docID", docID, "error", err)
		return nil, err
	}

	node := &models.ChatNode{
		ID:        uuid.New().String(),
		ParentID:  req.ParentID,
		FileID:    docID,
		Question:  req.Question,
		Answer:    answer.Answer,
		CreatedAt: time.Now(),
	}
	if err := s.chatRepo.Create(ctx, node); err != nil {
		logging.Logger.Error("fail saving chat node", "docID", docID, "error", err)
		return nil, err
	}
	if req.ParentID == "" && doc.Root == "" {
		if err := s.docRepo.UpdateRoot(ctx, docID, node.ID); err != nil {
			logging.Logger.Error("fail UpdateRoot", "docID", docID, "error", err)
		}
	}

	return &models.AskResp{
		ID:       node.ID,
		Question: node.Question,
		Answer:   node.Answer,
		Sources:  answer.Sources,
	}, nil
}

// GetHistory returns the ancestor chain of a node in chronological order.
// A node's history never changes once written, so it caches well.
func (s *ChatService) GetHistory(ctx context.Context, docID, nodeID string) ([]*models.ChatNode, error) {
	value, err := s.cacheService.GetOrLoad("history:"+docID+":"+nodeID, time.Hour, func() (interface{}, error) {
		return s.chatRepo.GetChatHistory(ctx, docID, nodeID)
	})
	if err != nil {
		return nil, err
	}
	return decodeNodes(value)
}

func (s *ChatService) GetChildren(ctx context.Context, docID, nodeID string) ([]*models.ChatNode, error) {
	return s.chatRepo.GetChatChildren(ctx, docID, nodeID)
}

// decodeNodes handles both a direct hit (typed, from the L1 layer) and a
// JSON string coming back out of redis.
func decodeNodes(value interface{}) ([]*models.ChatNode, error) {
	switch v := value.(type) {
	case []*models.ChatNode:
		return v, nil
	case string:
		var nodes []*models.ChatNode
		if err := json.Unmarshal([]byte(v), &nodes); err != nil {
			return nil, err
		}
		return nodes, nil
	case []byte:
		var nodes []*models.ChatNode
		if err := json.Unmarshal(v, &nodes); err != nil {
			return nil, err
		}
		return nodes, nil
	default:
		return nil, nil
	}
}
