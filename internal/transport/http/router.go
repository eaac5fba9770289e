package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sensorgate/pkg/platform/httputil"
)

// Registrable is implemented by every module handler.
type Registrable interface {
	Register(r chi.Router)
}

// HealthChecker is implemented by backing systems that can report liveness.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig carries everything the router wires beyond module handlers.
type RouterConfig struct {
	Checks []HealthChecker
}

// NewRouter wires all public endpoints: module routes, prometheus metrics,
// and a health probe.
func NewRouter(cfg RouterConfig, handlers ...Registrable) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestTime)

	for _, h := range handlers {
		h.Register(r)
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		for _, check := range cfg.Checks {
			if err := check.Health(req.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
