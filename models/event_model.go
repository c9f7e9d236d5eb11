package models

import "time"

type DocumentEventType string

const (
	EventDocumentProcessing DocumentEventType = "processing"
	EventDocumentCompleted  DocumentEventType = "completed"
	EventDocumentFailed     DocumentEventType = "failed"
)

// EventTypeForStatus maps a lifecycle status onto the event type the
// browser receives. Non-terminal statuses all surface as "processing".
func EventTypeForStatus(status ProcessingStatus) DocumentEventType {
	switch status {
	case StatusCompleted:
		return EventDocumentCompleted
	case StatusFailed:
		return EventDocumentFailed
	default:
		return EventDocumentProcessing
	}
}

type DocumentEvent struct {
	Type      DocumentEventType `json:"type"`
	DocID     string            `json:"doc_id"`
	UserID    string            `json:"user_id"`
	Status    ProcessingStatus  `json:"status"`
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
