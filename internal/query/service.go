// Package query is the read-only facade over the metadata catalog. Reads are
// not gated: that boundary is deliberate, not an oversight to fix here.
package query

import (
	"context"
	"fmt"
	"time"

	"sensorgate/internal/catalog"
)

const (
	// DefaultLimit matches the original recent-logs view.
	DefaultLimit = 10

	// MaxLimit keeps one query from scanning the whole catalog.
	MaxLimit = 500
)

// Catalog is the read surface this service needs.
type Catalog interface {
	Recent(ctx context.Context, limit int) ([]*catalog.Record, error)
}

// LogEntry is the caller-facing rendering of one record. All identifiers are
// printable strings; blob content is never inlined, only referenced.
type LogEntry struct {
	RecordID        string    `json:"record_id"`
	DeviceID        string    `json:"device_id"`
	ClientTimestamp string    `json:"client_timestamp"`
	ReceivedAt      time.Time `json:"received_at"`
	RawText         string    `json:"raw_text"`
	ImageName       string    `json:"image_name"`
	BlobID          *string   `json:"blob_id"`
	BlobFilename    *string   `json:"blob_filename,omitempty"`
}

// Service reads recent records.
type Service struct {
	catalog      Catalog
	defaultLimit int
}

// NewService constructs the query service. defaultLimit <= 0 falls back to
// DefaultLimit.
func NewService(cat Catalog, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Service{catalog: cat, defaultLimit: defaultLimit}
}

// RecentLogs returns up to limit records, newest first. limit <= 0 selects
// the default; values above MaxLimit are clamped, not rejected.
func (s *Service) RecentLogs(ctx context.Context, limit int) ([]*LogEntry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	records, err := s.catalog.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}

	entries := make([]*LogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, toLogEntry(rec))
	}
	return entries, nil
}

func toLogEntry(rec *catalog.Record) *LogEntry {
	entry := &LogEntry{
		RecordID:        rec.ID,
		DeviceID:        rec.DeviceID,
		ClientTimestamp: rec.ClientTimestamp,
		ReceivedAt:      rec.ReceivedAt,
		RawText:         rec.RawText,
		ImageName:       rec.ImageName,
	}
	if rec.HasBlob() {
		blobID := rec.BlobID
		entry.BlobID = &blobID
		if rec.BlobFilename != "" {
			filename := rec.BlobFilename
			entry.BlobFilename = &filename
		}
	}
	return entry
}
