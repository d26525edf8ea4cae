// Package api provides HTTP API handlers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/factchecker/cinecheck/internal/assistant"
	"github.com/factchecker/cinecheck/internal/database"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Asker answers chat queries.
type Asker interface {
	Ask(ctx context.Context, query string) (*models.ChatResult, error)
}

// Handler contains all HTTP handlers.
type Handler struct {
	asker    Asker
	verifier assistant.Verifier
	store    database.Store
}

// NewHandler creates a new handler. store may be nil, in which case the
// history endpoints report 503.
func NewHandler(asker Asker, verifier assistant.Verifier, store database.Store) *Handler {
	return &Handler{
		asker:    asker,
		verifier: verifier,
		store:    store,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// Chat runs a query through the assistant pipeline.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	result, err := h.asker.Ask(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "Query is required")
			return
		}
		log.Error().Err(err).Msg("Chat query failed")
		writeError(w, http.StatusInternalServerError, "Query failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Verify checks a claim against caller-supplied evidence without touching
// the scraper or the history store.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	verdict := h.verifier.Verify(r.Context(), req.Query, req.Evidence)
	writeJSON(w, http.StatusOK, verdict)
}

// GetQuery returns a stored chat query by ID.
func (h *Handler) GetQuery(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "History is disabled")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	record, err := h.store.GetQuery(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get query")
		writeError(w, http.StatusInternalServerError, "Failed to get query")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "Query not found")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// ListQueries returns paginated chat history.
func (h *Handler) ListQueries(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "History is disabled")
		return
	}

	limit, offset := pagination(r, 20)

	queries, err := h.store.ListQueries(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list queries")
		writeError(w, http.StatusInternalServerError, "Failed to list queries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"queries": queries,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetAuditLogs returns paginated audit logs.
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "History is disabled")
		return
	}

	limit, offset := pagination(r, 50)

	logs, err := h.store.GetAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get audit logs")
		writeError(w, http.StatusInternalServerError, "Failed to get audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}

func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}

	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
