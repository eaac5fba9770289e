package query

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "sensorgate/pkg/domain-errors"
	"sensorgate/pkg/platform/httputil"
)

// Handler serves the recent-records read path.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a query handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts query endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/v1/records", h.HandleRecentRecords)
}

// HandleRecentRecords handles GET /api/v1/records requests.
func (h *Handler) HandleRecentRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be an integer"))
			return
		}
		limit = n
	}

	entries, err := h.service.RecentLogs(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "recent records query failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "metadata catalog unavailable", err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entries)
}
