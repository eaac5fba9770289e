package registry

import (
	"context"
	"errors"
	"log/slog"

	"sensorgate/internal/registry/metrics"
	dErrors "sensorgate/pkg/domain-errors"
	"sensorgate/pkg/platform/sentinel"
)

// DeviceStore is the registry lookup the gate reads through.
type DeviceStore interface {
	FindByID(ctx context.Context, deviceID string) (*Device, error)
}

// DecisionCache fronts the store with recent decisions. A cache miss is
// signaled with sentinel.ErrNotFound; any cache failure degrades to a store
// lookup, never to a denial.
type DecisionCache interface {
	GetDecision(ctx context.Context, deviceID string) (bool, error)
	SetDecision(ctx context.Context, deviceID string, allowed bool) error
}

// Service is the authorization gate. Side-effect free from the caller's
// perspective; safe for concurrent use.
type Service struct {
	store   DeviceStore
	cache   DecisionCache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithCache(cache DecisionCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the gate over a device store.
func NewService(store DeviceStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authorize returns nil when the device may write. A coded unauthorized
// error means the device is unknown or inactive; a coded unavailable error
// means the registry could not be consulted. The two are never conflated:
// infrastructure failure must not read as "device rejected".
func (s *Service) Authorize(ctx context.Context, deviceID string) error {
	if s.cache != nil {
		allowed, err := s.cache.GetDecision(ctx, deviceID)
		switch {
		case err == nil:
			s.metrics.RecordCacheHit()
			return s.decision(deviceID, allowed)
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "decision cache lookup failed, falling back to registry",
				"device_id", deviceID,
				"error", err,
			)
		}
	}

	device, err := s.store.FindByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.cacheDecision(ctx, deviceID, false)
			return s.decision(deviceID, false)
		}
		s.metrics.RecordDecision("unavailable")
		return dErrors.Wrap(dErrors.CodeUnavailable, "device registry unreachable", err)
	}

	s.cacheDecision(ctx, deviceID, device.Active)
	return s.decision(deviceID, device.Active)
}

func (s *Service) decision(deviceID string, allowed bool) error {
	if allowed {
		s.metrics.RecordDecision("allowed")
		return nil
	}
	s.metrics.RecordDecision("denied")
	return dErrors.New(dErrors.CodeUnauthorized, "device "+deviceID+" is not permitted to write")
}

func (s *Service) cacheDecision(ctx context.Context, deviceID string, allowed bool) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetDecision(ctx, deviceID, allowed); err != nil {
		s.logger.WarnContext(ctx, "failed to cache authorization decision",
			"device_id", deviceID,
			"error", err,
		)
	}
}
