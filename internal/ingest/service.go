// Package ingest sequences one incoming record through the authorization
// gate, the blob store, and the metadata catalog.
//
// The blob is always written before the metadata record. By the time a
// record is visible to any reader, its referenced blob already exists; the
// reverse order would let a reader observe a dangling reference. There is no
// cross-store transaction: if the catalog insert fails after a successful
// put, the stored blob becomes an orphan and the caller gets a hard failure.
package ingest

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"sensorgate/internal/audit"
	"sensorgate/internal/catalog"
	"sensorgate/internal/ingest/metrics"
	"sensorgate/internal/platform/config"
	dErrors "sensorgate/pkg/domain-errors"
	"sensorgate/pkg/requestcontext"
)

// Authorizer answers whether a device may write. nil means allowed.
type Authorizer interface {
	Authorize(ctx context.Context, deviceID string) error
}

// BlobStore is the write surface of the blob store.
type BlobStore interface {
	Put(ctx context.Context, content []byte, filename string) (string, error)
}

// Catalog is the write surface of the metadata catalog.
type Catalog interface {
	Insert(ctx context.Context, rec *catalog.Record) (string, error)
}

// AuditPublisher records ingestion audit events. Best effort.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Request is one fully-formed record handed over by the capture client.
// Attachment is nil when the record has no binary payload.
type Request struct {
	DeviceID        string
	ClientTimestamp string
	RawText         string
	ImageName       string
	Attachment      []byte
	AttachmentName  string
}

// Result reports the identifiers assigned during a successful ingest.
// BlobID is empty when the request carried no attachment.
type Result struct {
	RecordID string
	BlobID   string
}

// Service is the ingestion orchestrator.
type Service struct {
	gate    Authorizer
	blobs   BlobStore
	catalog Catalog

	logger  *slog.Logger
	audit   AuditPublisher
	metrics *metrics.Metrics

	maxAttachmentBytes int64
}

type Option func(*Service)

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMaxAttachmentBytes overrides the attachment size cap.
func WithMaxAttachmentBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttachmentBytes = n
		}
	}
}

// NewService constructs the orchestrator.
func NewService(gate Authorizer, blobs BlobStore, cat Catalog, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		gate:               gate,
		blobs:              blobs,
		catalog:            cat,
		logger:             logger,
		maxAttachmentBytes: config.DefaultMaxAttachmentBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest runs one record through gate, blob store, and catalog.
//
// Failure semantics: a denied device fails fast before either store is
// touched. A blob-store failure leaves no state behind. A catalog failure
// after a successful put leaves an orphaned blob, reports a hard failure,
// and performs no retraction; a caller retry produces fresh IDs.
func (s *Service) Ingest(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	defer s.metrics.ObserveIngest(start)

	if err := validate(req); err != nil {
		s.metrics.RecordIngest("rejected")
		return nil, err
	}
	if req.Attachment != nil && int64(len(req.Attachment)) > s.maxAttachmentBytes {
		s.metrics.RecordIngest("rejected")
		return nil, dErrors.New(dErrors.CodeValidation,
			"attachment exceeds "+strconv.FormatInt(s.maxAttachmentBytes, 10)+" bytes")
	}

	if err := s.gate.Authorize(ctx, req.DeviceID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.metrics.RecordIngest("denied")
			s.emitAudit(ctx, audit.Event{
				DeviceID: req.DeviceID,
				Action:   string(audit.EventIngestDenied),
				Reason:   err.Error(),
			})
			return nil, err
		}
		s.metrics.RecordIngest("failed")
		return nil, err
	}

	var blobID string
	if req.Attachment != nil {
		var err error
		blobID, err = s.blobs.Put(ctx, req.Attachment, req.AttachmentName)
		if err != nil {
			s.metrics.RecordIngest("failed")
			s.emitAudit(ctx, audit.Event{
				DeviceID: req.DeviceID,
				Action:   string(audit.EventIngestFailed),
				Reason:   "blob store unavailable",
			})
			return nil, dErrors.Wrap(dErrors.CodeUnavailable, "blob store unavailable", err)
		}
		s.metrics.ObserveAttachment(len(req.Attachment))
	}

	recordID, err := s.catalog.Insert(ctx, &catalog.Record{
		DeviceID:        req.DeviceID,
		ClientTimestamp: req.ClientTimestamp,
		RawText:         req.RawText,
		ImageName:       req.ImageName,
		BlobID:          blobID,
		BlobFilename:    req.AttachmentName,
	})
	if err != nil {
		s.metrics.RecordIngest("failed")
		if blobID != "" {
			// The blob is durable but nothing references it. Accepted
			// trade-off: no retraction, the out-of-core sweep reclaims it.
			s.metrics.RecordOrphanedBlob()
			s.logger.WarnContext(ctx, "catalog insert failed after blob put, blob orphaned",
				"device_id", req.DeviceID,
				"blob_id", blobID,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			s.emitAudit(ctx, audit.Event{
				DeviceID: req.DeviceID,
				Action:   string(audit.EventBlobOrphaned),
				BlobID:   blobID,
			})
		}
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "metadata catalog unavailable", err)
	}

	s.metrics.RecordIngest("accepted")
	s.emitAudit(ctx, audit.Event{
		DeviceID: req.DeviceID,
		Action:   string(audit.EventRecordIngested),
		RecordID: recordID,
		BlobID:   blobID,
	})
	s.logger.InfoContext(ctx, "record ingested",
		"device_id", req.DeviceID,
		"record_id", recordID,
		"blob_id", blobID,
		"request_id", requestcontext.RequestID(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Result{RecordID: recordID, BlobID: blobID}, nil
}

func validate(req Request) error {
	switch {
	case req.DeviceID == "":
		return dErrors.New(dErrors.CodeValidation, "device_id is required")
	case req.RawText == "":
		return dErrors.New(dErrors.CodeValidation, "raw_text is required")
	case req.ImageName == "":
		return dErrors.New(dErrors.CodeValidation, "image_name is required")
	case req.Attachment != nil && req.AttachmentName == "":
		return dErrors.New(dErrors.CodeValidation, "attachment filename is required")
	}
	return nil
}

// emitAudit is fire-and-forget: an unreachable audit sink must not fail an
// ingest that the stores already accepted.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"device_id", event.DeviceID,
			"action", event.Action,
			"error", err,
		)
	}
}
