package catalog

import "context"

// Store is the catalog abstraction the orchestrator and query service share.
type Store interface {
	// Insert assigns a fresh record ID and server-side received_at, persists
	// the record, and returns the assigned ID. The input's ID and ReceivedAt
	// fields are ignored.
	Insert(ctx context.Context, rec *Record) (string, error)

	// Recent returns up to limit records ordered by received_at descending,
	// ties broken by record ID descending (most recently assigned first).
	// An empty catalog yields an empty slice, not an error.
	Recent(ctx context.Context, limit int) ([]*Record, error)
}
