package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sensorgate/pkg/platform/sentinel"
)

// PostgresStore reads the device registry from the devices table. The table
// is mutated only by the administrative process, so this store is read-only.
//
// Schema:
//
//	CREATE TABLE devices (
//	    device_id  TEXT PRIMARY KEY,
//	    is_active  BOOLEAN NOT NULL DEFAULT TRUE,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed registry store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, deviceID string) (*Device, error) {
	var device Device
	err := s.db.QueryRowContext(ctx,
		`SELECT device_id, is_active, created_at FROM devices WHERE device_id = $1`,
		deviceID,
	).Scan(&device.ID, &device.Active, &device.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	return &device, nil
}
