// Package blob is the durable, ID-addressed store for opaque binary
// payloads. Two puts of identical content yield two blobs: the store is
// deliberately not content-addressed, and deduplication is out of scope.
package blob

import (
	"context"
	"time"
)

// Blob is one stored payload. Immutable after Put; deleted only by the
// out-of-core retention sweep.
type Blob struct {
	ID        string
	Content   []byte
	Filename  string
	SizeBytes int64
	StoredAt  time.Time
}

// Store is the byte-storage abstraction the orchestrator writes through.
//
// Put must not return an ID until the content is durable, and must never
// leave a partially visible blob: either the blob is fully stored and an ID
// comes back, or nothing is stored and an error comes back.
type Store interface {
	Put(ctx context.Context, content []byte, filename string) (string, error)
	Get(ctx context.Context, blobID string) (*Blob, error)
}
