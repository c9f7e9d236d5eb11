package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type DocumentMeta struct {
	FileID string `gorm:"column:file_id;type:varchar(255);primaryKey" json:"file_id"`

	UserID   string `gorm:"column:user_id;type:varchar(255);not null;index:idx_user_id" json:"user_id"`
	Filename string `gorm:"column:filename;type:varchar(512);not null" json:"filename"`
	FileKey  string `gorm:"column:file_key;type:varchar(255);not null;index:idx_file_key" json:"file_key"`
	FileHash string `gorm:"column:file_hash;type:varchar(64);index:idx_file_hash" json:"file_hash"`
	FileSize int64  `gorm:"column:file_size;type:bigint" json:"file_size"`

	PageCount  int32          `gorm:"column:page_count;type:int" json:"page_count"`
	ChunkCount int32          `gorm:"column:chunk_count;type:int" json:"chunk_count"`
	Sections   pq.StringArray `gorm:"column:sections;type:text[]" json:"sections"`
	Root       string         `gorm:"column:root;type:varchar(255);index:idx_root" json:"root"`

	Status          ProcessingStatus `gorm:"column:status;type:varchar(50);default:'pending';index:idx_status" json:"status"`
	ProcessingError string           `gorm:"column:processing_error;type:text" json:"processing_error,omitempty"`

	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamp" json:"created_at"`
	StartedAt   *time.Time `gorm:"column:started_at;type:timestamp" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at;type:timestamp" json:"completed_at,omitempty"`
}

func (DocumentMeta) TableName() string {
	return "document_meta"
}

func (d *DocumentMeta) BeforeCreate(tx *gorm.DB) error {
	if d.Status == "" {
		d.Status = StatusPending
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	return nil
}

// IngestTask is what the ingestion engine receives for one uploaded file.
type IngestTask struct {
	DocID     string    `json:"doc_id"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
