package models

// ProcessingStatus is the ingestion lifecycle state of a document as
// reported by the ingestion engine.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Terminal reports whether the status ends tracking.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Known reports whether the engine sent one of the four contract values.
// Anything else is treated as unrecognized-but-non-terminal by callers.
func (s ProcessingStatus) Known() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
