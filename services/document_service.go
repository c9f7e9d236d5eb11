package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pdfchat_backend/models"
	"pdfchat_backend/monitor"
	"pdfchat_backend/pkg/logging"
	"pdfchat_backend/platform/cache"
	"pdfchat_backend/platform/queue"
	"pdfchat_backend/platform/storage"
	"pdfchat_backend/repository"
)

var (
	ErrFileTooLarge    = errors.New("file too large: max 50MB")
	ErrUnsupportedType = errors.New("unsupported file type: only pdf")
	ErrNotOwner        = errors.New("document does not belong to user")
)

// presigned URLs handed to the engine stay valid long enough to cover a
// queued backlog
const engineURLTTL = 15 * time.Minute

type DocumentService struct {
	docRepo        repository.DocumentRepository
	messageQueue   cache.MessageQueue
	storageService *storage.Service
	cacheService   cache.CacheService
	statusCache    *cache.TypedCache[*models.StatusResp]
	engine         Engine
	tracker        Tracker
	maxFileSize    int64
}

func NewDocumentService(
	docRepo repository.DocumentRepository,
	messageQueue cache.MessageQueue,
	storageService *storage.Service,
	cacheService cache.CacheService,
	engine Engine,
	tracker Tracker,
	maxFileSize int64) *DocumentService {
	return &DocumentService{
		docRepo:        docRepo,
		messageQueue:   messageQueue,
		storageService: storageService,
		cacheService:   cacheService,
		statusCache:    cache.NewTypedCache[*models.StatusResp](cacheService),
		engine:         engine,
		tracker:        tracker,
		maxFileSize:    maxFileSize,
	}
}

// Upload stores the PDF, records it as pending, enqueues it for the
// ingestion engine and starts tracking its processing status.
func (s *DocumentService) Upload(ctx context.Context, userID, filename, contentType string, data []byte) (*models.UploadResp, error) {
	if int64(len(data)) > s.maxFileSize {
		return nil, ErrFileTooLarge
	}
	if contentType != "application/pdf" && !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, ErrUnsupportedType
	}

	sum := sha256.Sum256(data)
	fileHash := hex.EncodeToString(sum[:])

	if existing, err := s.docRepo.GetByHash(ctx, userID, fileHash); err == nil {
		return &models.UploadResp{
			Success: false,
			Message: "This file has already been uploaded",
			DocID:   existing.FileID,
			Status:  existing.Status,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("fail GetByHash", "error", err)
		return nil, err
	}

	fileKey, err := s.storageService.Upload(ctx, filename, userID, data, "application/pdf")
	if err != nil {
		logging.Logger.Error("fail storing upload", "error", err, "filename", filename)
		return nil, err
	}

	docID := uuid.New().String()
	doc := &models.DocumentMeta{
		FileID:   docID,
		UserID:   userID,
		Filename: filename,
		FileKey:  fileKey,
		FileHash: fileHash,
		FileSize: int64(len(data)),
		Status:   models.StatusPending,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		logging.Logger.Error("failed to create document", "error", err, "docID", docID)
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if err := s.enqueueIngest(doc); err != nil {
		// the row stays pending; the refresher keeps the monitor on it and
		// a reprocess call can re-enqueue
		logging.Logger.Error("fail enqueueIngest", "error", err, "docID", docID)
	}

	// the same document may also arrive through a later list refresh;
	// reconciliation keeps tracking idempotent either way
	s.tracker.Reconcile([]monitor.Document{{ID: docID, Status: models.StatusPending}})

	return &models.UploadResp{
		Success: true,
		Message: "PDF uploaded successfully. Processing in background...",
		DocID:   docID,
		Status:  models.StatusPending,
	}, nil
}

func (s *DocumentService) enqueueIngest(doc *models.DocumentMeta) error {
	url, err := s.storageService.GeneratePresignedGetDownload(doc.FileKey, engineURLTTL)
	if err != nil {
		return err
	}
	task := &models.IngestTask{
		DocID:     doc.FileID,
		FileName:  doc.Filename,
		URL:       url,
		UserID:    doc.UserID,
		CreatedAt: time.Now(),
	}
	return s.messageQueue.PushToQueue(queue.IngestQueue, task)
}

// List returns the user's documents and reconciles the monitor against
// this authoritative list, so any non-terminal document picked up here is
// tracked from now on.
func (s *DocumentService) List(ctx context.Context, userID string) (*models.DocumentListResp, error) {
	docs, err := s.docRepo.ListByUser(ctx, userID)
	if err != nil {
		logging.Logger.Error("fail ListByUser", "error", err, "userID", userID)
		return nil, err
	}
	s.tracker.Reconcile(MonitorDocs(docs))
	return &models.DocumentListResp{Documents: docs, Total: len(docs)}, nil
}

// Status reports one document's processing state. Terminal statuses are
// immutable and served from cache.
func (s *DocumentService) Status(ctx context.Context, userID, docID string) (*models.StatusResp, error) {
	if cached, ok, err := s.statusCache.Get(statusCacheKey(docID)); ok && err == nil {
		return cached, nil
	}

	doc, err := s.getOwned(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	resp := statusRespFor(doc, doc.Status)
	if doc.Status.Terminal() {
		if err := s.statusCache.Set(statusCacheKey(docID), resp, 24*time.Hour); err != nil {
			logging.Logger.Error("fail caching terminal status", "docID", docID, "error", err)
		}
	}
	return resp, nil
}

// Delete removes the document and its stored file and force-stops any
// tracking session without a terminal notification.
func (s *DocumentService) Delete(ctx context.Context, userID, docID string) error {
	doc, err := s.getOwned(ctx, userID, docID)
	if err != nil {
		return err
	}

	s.tracker.StopTracking(docID)

	if err := s.storageService.Remove(ctx, doc.FileKey); err != nil {
		logging.Logger.Error("fail removing stored file", "docID", docID, "error", err)
	}
	if err := s.docRepo.Delete(ctx, docID); err != nil {
		logging.Logger.Error("fail deleting document", "docID", docID, "error", err)
		return err
	}
	if err := s.statusCache.Delete(statusCacheKey(docID)); err != nil {
		logging.Logger.Error("fail dropping status cache", "docID", docID, "error", err)
	}
	return nil
}

// Reprocess hands the document to the engine again (e.g. after a failed
// run) and resumes tracking.
func (s *DocumentService) Reprocess(ctx context.Context, userID, docID string) error {
	doc, err := s.getOwned(ctx, userID, docID)
	if err != nil {
		return err
	}

	url, err := s.storageService.GeneratePresignedGetDownload(doc.FileKey, engineURLTTL)
	if err != nil {
		return err
	}
	task := &models.IngestTask{
		DocID:     doc.FileID,
		FileName:  doc.Filename,
		URL:       url,
		UserID:    doc.UserID,
		CreatedAt: time.Now(),
	}
	if err := s.engine.StartProcessing(ctx, task); err != nil {
		logging.Logger.Error("fail StartProcessing", "docID", docID, "error", err)
		return err
	}

	if err := s.docRepo.UpdateStatus(ctx, docID, models.StatusPending, ""); err != nil {
		logging.Logger.Error("fail resetting status", "docID", docID, "error", err)
		return err
	}
	if err := s.statusCache.Delete(statusCacheKey(docID)); err != nil {
		logging.Logger.Error("fail dropping status cache", "docID", docID, "error", err)
	}
	s.tracker.Reconcile([]monitor.Document{{ID: docID, Status: models.StatusPending}})
	return nil
}

func (s *DocumentService) getOwned(ctx context.Context, userID, docID string) (*models.DocumentMeta, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, ErrNotOwner
	}
	return doc, nil
}

// MonitorDocs converts repository rows into the monitor's list view.
func MonitorDocs(docs []*models.DocumentMeta) []monitor.Document {
	res := make([]monitor.Document, 0, len(docs))
	for _, d := range docs {
		res = append(res, monitor.Document{ID: d.FileID, Status: d.Status})
	}
	return res
}
