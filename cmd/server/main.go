// Command server wires the ingestion pipeline and serves it over HTTP.
// Business logic lives in the internal service packages; main only selects
// backends from configuration and manages the process lifecycle.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sensorgate/internal/audit"
	"sensorgate/internal/blob"
	blobhandler "sensorgate/internal/blob/handler"
	"sensorgate/internal/catalog"
	"sensorgate/internal/ingest"
	ingesthandler "sensorgate/internal/ingest/handler"
	ingestmetrics "sensorgate/internal/ingest/metrics"
	"sensorgate/internal/platform/config"
	"sensorgate/internal/platform/httpserver"
	"sensorgate/internal/platform/kafka"
	"sensorgate/internal/platform/logger"
	"sensorgate/internal/platform/postgres"
	platformredis "sensorgate/internal/platform/redis"
	"sensorgate/internal/query"
	"sensorgate/internal/registry"
	registrymetrics "sensorgate/internal/registry/metrics"
	httptransport "sensorgate/internal/transport/http"
)

const decisionCacheTTL = 30 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []httptransport.HealthChecker

	// Storage backends: Postgres when configured, in-memory otherwise.
	var (
		db           *sql.DB
		deviceStore  registry.DeviceStore
		catalogStore catalog.Store
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		deviceStore = registry.NewPostgresStore(db)
		catalogStore = catalog.NewPostgresStore(db)
		checks = append(checks, dbHealth{db})
		log.Info("using postgres registry and catalog")
	} else {
		memRegistry := registry.NewInMemoryStore()
		for _, deviceID := range cfg.SeedDevices {
			_ = memRegistry.Put(ctx, registry.Device{ID: deviceID, Active: true, CreatedAt: time.Now()})
		}
		deviceStore = memRegistry
		catalogStore = catalog.NewInMemoryStore()
		log.Warn("using in-memory registry and catalog, data will not survive restarts",
			"seed_devices", len(cfg.SeedDevices),
		)
	}

	blobStore, err := newBlobStore(cfg, db)
	if err != nil {
		return err
	}
	log.Info("blob store configured", "backend", cfg.BlobBackend)

	// Authorization gate, optionally fronted by a redis decision cache.
	gateOpts := []registry.Option{registry.WithMetrics(registrymetrics.New())}
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		gateOpts = append(gateOpts, registry.WithCache(
			registry.NewRedisDecisionCache(redisClient, decisionCacheTTL)))
		checks = append(checks, redisClient)
		log.Info("authorization decision cache enabled")
	}
	gate := registry.NewService(deviceStore, log, gateOpts...)

	// Audit sink: Kafka when brokers are configured, in-memory otherwise.
	var sink audit.Sink = audit.NewInMemorySink()
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer producer.Close()
		sink = audit.NewKafkaSink(producer, cfg.AuditTopic)
		log.Info("kafka audit sink enabled", "topic", cfg.AuditTopic)
	}

	ingestService := ingest.NewService(gate, blobStore, catalogStore, log,
		ingest.WithAuditPublisher(audit.NewPublisher(sink)),
		ingest.WithMetrics(ingestmetrics.New()),
		ingest.WithMaxAttachmentBytes(cfg.MaxAttachmentBytes),
	)
	queryService := query.NewService(catalogStore, cfg.QueryDefaultLimit)

	router := httptransport.NewRouter(
		httptransport.RouterConfig{Checks: checks},
		ingesthandler.New(ingestService, log,
			// Attachment cap plus headroom for the text fields.
			ingesthandler.WithMaxRequestBytes(cfg.MaxAttachmentBytes+1<<20)),
		query.NewHandler(queryService, log),
		blobhandler.New(blobStore, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting sensorgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newBlobStore selects the blob backend from configuration. The postgres
// backend shares the catalog's connection pool.
func newBlobStore(cfg config.Server, db *sql.DB) (blob.Store, error) {
	switch cfg.BlobBackend {
	case "memory":
		return blob.NewInMemoryStore(), nil
	case "fs":
		return blob.NewFSStore(cfg.BlobFSRoot)
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("blob backend postgres requires SENSORGATE_DATABASE_URL")
		}
		return blob.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

// dbHealth adapts *sql.DB to the router's health check interface.
type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
