package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"sensorgate/pkg/requestcontext"
)

// PostgresStore persists ingested records. The bigserial id doubles as the
// insertion-order tiebreaker; callers only ever see it stringified.
//
// Schema:
//
//	CREATE TABLE ingested_records (
//	    id               BIGSERIAL PRIMARY KEY,
//	    device_id        TEXT NOT NULL,
//	    client_timestamp TEXT NOT NULL,
//	    received_at      TIMESTAMPTZ NOT NULL,
//	    raw_text         TEXT NOT NULL,
//	    image_name       TEXT NOT NULL,
//	    blob_id          TEXT,
//	    blob_filename    TEXT
//	);
//	CREATE INDEX ingested_records_recent_idx ON ingested_records (received_at DESC, id DESC);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed catalog.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, rec *Record) (string, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO ingested_records
		     (device_id, client_timestamp, received_at, raw_text, image_name, blob_id, blob_filename)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		rec.DeviceID,
		rec.ClientTimestamp,
		requestcontext.Now(ctx),
		rec.RawText,
		rec.ImageName,
		nullString(rec.BlobID),
		nullString(rec.BlobFilename),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		return []*Record{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, device_id, client_timestamp, received_at, raw_text, image_name, blob_id, blob_filename
		 FROM ingested_records
		 ORDER BY received_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent records: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0, limit)
	for rows.Next() {
		var (
			id           int64
			rec          Record
			blobID       sql.NullString
			blobFilename sql.NullString
		)
		if err := rows.Scan(&id, &rec.DeviceID, &rec.ClientTimestamp, &rec.ReceivedAt,
			&rec.RawText, &rec.ImageName, &blobID, &blobFilename); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.BlobID = blobID.String
		rec.BlobFilename = blobFilename.String
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
