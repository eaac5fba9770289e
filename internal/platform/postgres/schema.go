package postgres

// Schema is the complete DDL for the service. Applied by the deployment's
// migration step and by integration tests; the server itself never runs DDL.
const Schema = `
CREATE TABLE IF NOT EXISTS devices (
    device_id  TEXT PRIMARY KEY,
    is_active  BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS blobs (
    blob_id    TEXT PRIMARY KEY,
    content    BYTEA NOT NULL,
    filename   TEXT NOT NULL,
    size_bytes BIGINT NOT NULL,
    stored_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS ingested_records (
    id               BIGSERIAL PRIMARY KEY,
    device_id        TEXT NOT NULL,
    client_timestamp TEXT NOT NULL,
    received_at      TIMESTAMPTZ NOT NULL,
    raw_text         TEXT NOT NULL,
    image_name       TEXT NOT NULL,
    blob_id          TEXT,
    blob_filename    TEXT
);

CREATE INDEX IF NOT EXISTS ingested_records_recent_idx
    ON ingested_records (received_at DESC, id DESC);
`
