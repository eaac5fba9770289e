// Package catalog is the append-mostly metadata store for ingested records.
// Records are immutable once inserted; ordering is owned by the server-side
// received_at stamp, never by the device-reported timestamp.
package catalog

import "time"

// Record is one ingested record. The catalog assigns ID and ReceivedAt at
// insert time; everything else arrives from the orchestrator.
//
// IDs are surfaced as opaque printable strings regardless of the catalog's
// native representation (a sequence in both backends here).
type Record struct {
	ID       string
	DeviceID string

	// ClientTimestamp is the device-reported capture time. Stored verbatim,
	// untrusted, and never used for ordering.
	ClientTimestamp string

	// ReceivedAt is assigned by the catalog at the moment of acceptance and
	// is the authoritative ordering key.
	ReceivedAt time.Time

	RawText   string
	ImageName string

	// BlobID references the stored attachment, empty when the record has
	// none. By the time a record is visible, its blob already exists.
	BlobID       string
	BlobFilename string
}

// HasBlob reports whether the record references a stored attachment.
func (r *Record) HasBlob() bool { return r.BlobID != "" }
