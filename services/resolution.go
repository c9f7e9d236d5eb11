package services

import (
	"context"
	"time"

	"pdfchat_backend/models"
	"pdfchat_backend/pkg/logging"
	"pdfchat_backend/platform/cache"
	"pdfchat_backend/platform/events"
	"pdfchat_backend/repository"
)

// ResolutionService is the monitor's notification sink: it records a
// document's terminal status and pushes the event to the browser via the
// redis pub/sub -> websocket pipeline. The monitor guarantees at most one
// call per document.
type ResolutionService struct {
	docRepo     repository.DocumentRepository
	events      *events.EventPublisher
	statusCache *cache.TypedCache[*models.StatusResp]
}

func NewResolutionService(docRepo repository.DocumentRepository, publisher *events.EventPublisher, cacheService cache.CacheService) *ResolutionService {
	return &ResolutionService{
		docRepo:     docRepo,
		events:      publisher,
		statusCache: cache.NewTypedCache[*models.StatusResp](cacheService),
	}
}

func (s *ResolutionService) DocumentResolved(docID string, status models.ProcessingStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.docRepo.UpdateStatus(ctx, docID, status, ""); err != nil {
		logging.Logger.Error("fail UpdateStatus on resolution", "docID", docID, "error", err)
	}

	event := &models.DocumentEvent{
		Type:   models.EventTypeForStatus(status),
		DocID:  docID,
		Status: status,
	}
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		logging.Logger.Error("fail GetByID on resolution", "docID", docID, "error", err)
	} else {
		event.UserID = doc.UserID
		event.Message = doc.Filename
		event.Error = doc.ProcessingError
		// terminal statuses never change again
		if err := s.statusCache.Set(statusCacheKey(docID), statusRespFor(doc, status), 24*time.Hour); err != nil {
			logging.Logger.Error("fail caching terminal status", "docID", docID, "error", err)
		}
	}

	if err := s.events.PublishDocumentEvent(event); err != nil {
		logging.Logger.Error("fail publishing resolution event", "docID", docID, "error", err)
	}
}

func statusCacheKey(docID string) string {
	return "status:" + docID
}

func statusRespFor(doc *models.DocumentMeta, status models.ProcessingStatus) *models.StatusResp {
	return &models.StatusResp{
		DocID:      doc.FileID,
		Filename:   doc.Filename,
		Status:     status,
		PageCount:  doc.PageCount,
		ChunkCount: doc.ChunkCount,
		Error:      doc.ProcessingError,
	}
}
