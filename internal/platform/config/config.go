package config

import (
	"os"
	"strconv"
	"strings"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean; every field has a development default.
type Server struct {
	Addr string

	// DatabaseURL selects the Postgres-backed registry and catalog stores
	// when set. Empty means in-memory stores (development and tests).
	DatabaseURL string

	// RedisURL enables the authorization decision cache when set.
	RedisURL string

	// KafkaBrokers enables the Kafka audit sink when non-empty.
	KafkaBrokers []string
	AuditTopic   string

	// BlobBackend is one of "memory", "fs", or "postgres".
	BlobBackend string
	BlobFSRoot  string

	MaxAttachmentBytes int64
	QueryDefaultLimit  int

	// SeedDevices pre-populates the in-memory registry with active devices.
	// Development convenience only; the Postgres registry is administered
	// out of band.
	SeedDevices []string
}

// DefaultMaxAttachmentBytes caps a single attachment unless overridden.
// Attachments are buffered in memory for the duration of one put.
const DefaultMaxAttachmentBytes = 16 << 20

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:               envOr("SENSORGATE_ADDR", ":8080"),
		DatabaseURL:        os.Getenv("SENSORGATE_DATABASE_URL"),
		RedisURL:           os.Getenv("SENSORGATE_REDIS_URL"),
		AuditTopic:         envOr("SENSORGATE_AUDIT_TOPIC", "sensorgate.audit"),
		BlobBackend:        envOr("SENSORGATE_BLOB_BACKEND", "memory"),
		BlobFSRoot:         envOr("SENSORGATE_BLOB_FS_ROOT", "./blobs"),
		MaxAttachmentBytes: envInt64Or("SENSORGATE_MAX_ATTACHMENT_BYTES", DefaultMaxAttachmentBytes),
		QueryDefaultLimit:  envIntOr("SENSORGATE_QUERY_DEFAULT_LIMIT", 10),
	}
	if brokers := os.Getenv("SENSORGATE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}
	if devices := os.Getenv("SENSORGATE_SEED_DEVICES"); devices != "" {
		cfg.SeedDevices = splitList(devices)
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
