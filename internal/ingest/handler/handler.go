package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sensorgate/internal/ingest"
	dErrors "sensorgate/pkg/domain-errors"
	"sensorgate/pkg/platform/httputil"
	"sensorgate/pkg/requestcontext"
)

// Multipart field names are the wire contract with the capture client.
const (
	fieldDeviceID  = "device_id"
	fieldTimestamp = "timestamp"
	fieldRawText   = "raw_text"
	fieldImageName = "image_name"
	fieldAudioFile = "audio_file"
)

// parseMemoryLimit bounds how much of the multipart body is held in memory
// before spilling to disk. Not the attachment size cap; that belongs to the
// orchestrator.
const parseMemoryLimit = 4 << 20

// Service is the orchestration surface this handler drives.
type Service interface {
	Ingest(ctx context.Context, req ingest.Request) (*ingest.Result, error)
}

// Handler accepts record submissions from capture clients.
type Handler struct {
	service Service
	logger  *slog.Logger

	// maxRequestBytes hard-stops oversized uploads at the transport before
	// any buffering. Zero disables the body cap.
	maxRequestBytes int64
}

type Option func(*Handler)

// WithMaxRequestBytes caps the whole request body.
func WithMaxRequestBytes(n int64) Option {
	return func(h *Handler) { h.maxRequestBytes = n }
}

// New constructs an ingestion handler.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts ingestion endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/records", h.HandleIngest)
}

// ingestResponse is the success payload. BlobID is null when the record
// carried no attachment.
type ingestResponse struct {
	RecordID string  `json:"record_id"`
	BlobID   *string `json:"blob_id"`
}

// HandleIngest handles POST /api/v1/records requests.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	if h.maxRequestBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes)
	}

	req, err := decodeIngestRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Ingest(ctx, *req)
	if err != nil {
		// Denials are routine; infrastructure failures are not.
		if dErrors.HasCode(err, dErrors.CodeUnavailable) || dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "ingest failed",
				"request_id", requestID,
				"device_id", req.DeviceID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "record accepted",
		"request_id", requestID,
		"device_id", req.DeviceID,
		"record_id", result.RecordID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	resp := ingestResponse{RecordID: result.RecordID}
	if result.BlobID != "" {
		resp.BlobID = &result.BlobID
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// decodeIngestRequest pulls the five logical fields out of the multipart
// form. Field presence is validated by the orchestrator; this layer only
// rejects bodies it cannot parse at all.
func decodeIngestRequest(r *http.Request) (*ingest.Request, error) {
	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, dErrors.New(dErrors.CodeValidation, "request body too large")
		}
		return nil, dErrors.New(dErrors.CodeValidation, "invalid multipart form")
	}

	req := &ingest.Request{
		DeviceID:        r.FormValue(fieldDeviceID),
		ClientTimestamp: r.FormValue(fieldTimestamp),
		RawText:         r.FormValue(fieldRawText),
		ImageName:       r.FormValue(fieldImageName),
	}

	file, header, err := r.FormFile(fieldAudioFile)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// No attachment: a legitimate record shape.
	case err != nil:
		return nil, dErrors.New(dErrors.CodeValidation, "invalid attachment")
	default:
		defer file.Close()
		content, readErr := io.ReadAll(file)
		if readErr != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "unreadable attachment")
		}
		req.Attachment = content
		req.AttachmentName = header.Filename
	}

	return req, nil
}
