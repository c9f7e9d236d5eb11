package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pdfchat_backend/models"
)

type documentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{DB: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.DocumentMeta) error {
	return r.DB.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) GetByID(ctx context.Context, fileID string) (*models.DocumentMeta, error) {
	var doc models.DocumentMeta
	err := r.DB.WithContext(ctx).Where("file_id = ?", fileID).First(&doc).Error
	return &doc, err
}

func (r *documentRepository) GetByHash(ctx context.Context, userID, fileHash string) (*models.DocumentMeta, error) {
	var doc models.DocumentMeta
	err := r.DB.WithContext(ctx).Where("user_id = ? AND file_hash = ?", userID, fileHash).First(&doc).Error
	return &doc, err
}

func (r *documentRepository) ListByUser(ctx context.Context, userID string) ([]*models.DocumentMeta, error) {
	var docs []*models.DocumentMeta
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *documentRepository) ListNonTerminal(ctx context.Context) ([]*models.DocumentMeta, error) {
	var docs []*models.DocumentMeta
	err := r.DB.WithContext(ctx).
		Where("status IN ?", []models.ProcessingStatus{models.StatusPending, models.StatusProcessing}).
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) UpdateStatus(ctx context.Context, fileID string, status models.ProcessingStatus, processingError string) error {
	updates := map[string]interface{}{
		"status":           status,
		"processing_error": processingError,
	}
	if status.Terminal() {
		updates["completed_at"] = time.Now()
	}
	return r.DB.WithContext(ctx).Model(&models.DocumentMeta{}).Where("file_id = ?", fileID).Updates(updates).Error
}

func (r *documentRepository) UpdateRoot(ctx context.Context, fileID string, rootID string) error {
	return r.DB.WithContext(ctx).Model(&models.DocumentMeta{}).Where("file_id = ?", fileID).Update("root", rootID).Error
}

func (r *documentRepository) Delete(ctx context.Context, fileID string) error {
	return r.DB.WithContext(ctx).Where("file_id = ?", fileID).Delete(&models.DocumentMeta{}).Error
}
