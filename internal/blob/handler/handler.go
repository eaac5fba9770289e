package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sensorgate/internal/blob"
	dErrors "sensorgate/pkg/domain-errors"
	"sensorgate/pkg/platform/httputil"
	"sensorgate/pkg/platform/sentinel"
)

// Store is the read surface this handler needs.
type Store interface {
	Get(ctx context.Context, blobID string) (*blob.Blob, error)
}

// Handler serves stored blob content. Reads are ungated, matching the rest
// of the read path.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// New constructs a blob download handler.
func New(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts blob endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/v1/blobs/{blobID}", h.HandleDownload)
}

// HandleDownload handles GET /api/v1/blobs/{blobID} requests.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blobID := chi.URLParam(r, "blobID")

	b, err := h.store.Get(ctx, blobID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "blob not found"))
			return
		}
		h.logger.ErrorContext(ctx, "blob lookup failed",
			"blob_id", blobID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "blob store unreachable", err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(b.SizeBytes, 10))
	if b.Filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+b.Filename+`"`)
	}
	_, _ = w.Write(b.Content)
}
