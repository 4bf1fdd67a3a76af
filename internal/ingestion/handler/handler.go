// Package handler serves the document write API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion/publisher"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion/validator"
	apperrors "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/metrics"
)

type Handler struct {
	publisher    publisher.Publisher
	maxTextBytes int
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// New creates a Handler. m may be nil.
func New(pub publisher.Publisher, maxTextBytes int, m *metrics.Metrics) *Handler {
	return &Handler{
		publisher:    pub,
		maxTextBytes: maxTextBytes,
		metrics:      m,
		logger:       slog.Default().With("component", "ingestion-handler"),
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("PUT /api/v1/documents/{id}", h.Upsert)
	mux.HandleFunc("DELETE /api/v1/documents/{id}", h.Delete)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, err := validator.ParseDocumentID(r.PathValue("id"))
	if err != nil {
		h.writeValidation(w, err)
		return
	}
	body := http.MaxBytesReader(w, r.Body, int64(h.bodyLimit()))
	var req ingestion.UpsertRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validator.ValidateUpsert(&req, h.maxTextBytes); err != nil {
		h.writeValidation(w, err)
		return
	}
	h.submit(w, r, consumer.IngestEvent{Op: consumer.OpUpsert, DocumentID: id, Text: req.Text})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validator.ParseDocumentID(r.PathValue("id"))
	if err != nil {
		h.writeValidation(w, err)
		return
	}
	h.submit(w, r, consumer.IngestEvent{Op: consumer.OpDelete, DocumentID: id})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, event consumer.IngestEvent) {
	log := logger.FromContext(r.Context())
	resp, err := h.publisher.Submit(r.Context(), event)
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		log.Error("document write failed",
			"op", event.Op,
			"doc_id", event.DocumentID,
			"error", err,
			"status_code", statusCode,
		)
		h.observe(event.Op, "error")
		h.writeError(w, statusCode, "document write failed")
		return
	}
	h.observe(resp.Op, strings.ToLower(resp.Status))
	log.Info("document write accepted",
		"op", resp.Op,
		"doc_id", resp.DocumentID,
		"status", resp.Status,
		"generation", resp.Generation,
	)
	status := http.StatusOK
	if resp.Status == ingestion.StatusQueued {
		status = http.StatusAccepted
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) observe(op, status string) {
	if h.metrics != nil {
		h.metrics.IngestWritesTotal.WithLabelValues(op, status).Inc()
	}
}

// bodyLimit leaves room for JSON escaping around the text limit.
func (h *Handler) bodyLimit() int {
	limit := h.maxTextBytes
	if limit <= 0 {
		limit = validator.DefaultMaxTextBytes
	}
	return 2*limit + 1024
}

func (h *Handler) writeValidation(w http.ResponseWriter, err error) {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
		return
	}
	h.writeError(w, http.StatusBadRequest, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
