package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sensorgate/pkg/platform/sentinel"
	"sensorgate/pkg/requestcontext"
)

// PostgresStore persists blobs as bytea rows. A single INSERT is atomic, so
// the no-partial-write contract comes for free from the database.
//
// Schema:
//
//	CREATE TABLE blobs (
//	    blob_id    TEXT PRIMARY KEY,
//	    content    BYTEA NOT NULL,
//	    filename   TEXT NOT NULL,
//	    size_bytes BIGINT NOT NULL,
//	    stored_at  TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed blob store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, content []byte, filename string) (string, error) {
	blobID := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (blob_id, content, filename, size_bytes, stored_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		blobID, content, filename, int64(len(content)), requestcontext.Now(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	return blobID, nil
}

func (s *PostgresStore) Get(ctx context.Context, blobID string) (*Blob, error) {
	var b Blob
	err := s.db.QueryRowContext(ctx,
		`SELECT blob_id, content, filename, size_bytes, stored_at FROM blobs WHERE blob_id = $1`,
		blobID,
	).Scan(&b.ID, &b.Content, &b.Filename, &b.SizeBytes, &b.StoredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find blob: %w", err)
	}
	return &b, nil
}
