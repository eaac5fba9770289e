package audit

import "time"

// Event is emitted from domain logic to capture key ingestion actions. Keep
// it transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	DeviceID  string    `json:"device_id"`
	Action    string    `json:"action"`
	RecordID  string    `json:"record_id,omitempty"`
	BlobID    string    `json:"blob_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type AuditEvent string

const (
	EventRecordIngested AuditEvent = "record_ingested"
	EventIngestDenied   AuditEvent = "ingest_denied"
	EventIngestFailed   AuditEvent = "ingest_failed"
	EventBlobOrphaned   AuditEvent = "blob_orphaned"
)
