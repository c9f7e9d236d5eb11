package services

import (
	"context"

	"pdfchat_backend/models"
	"pdfchat_backend/monitor"
)

// Engine is the slice of the ingestion engine's API the services consume.
type Engine interface {
	StartProcessing(ctx context.Context, task *models.IngestTask) error
	Query(ctx context.Context, query *models.QueryReq) (*models.QueryResp, error)
}

// Tracker is the processing monitor surface the document service drives.
type Tracker interface {
	Reconcile(docs []monitor.Document)
	StopTracking(docID string)
	InFlight() int
}
