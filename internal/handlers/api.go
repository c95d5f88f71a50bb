package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"

	"season-dashboard/internal/errors"
	"season-dashboard/internal/models"
	"season-dashboard/internal/observability"
	"season-dashboard/internal/services"
)

const cacheControl = "private, no-cache"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	data := models.CategoryList{
		Seasons: h.analytics.Categories(),
		Default: h.analytics.DefaultSelection(),
	}

	h.writeCached(w, r, data)
}

// HandleCharts returns the full ChartSet for the requested seasons.
func (h *APIHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	set, err := h.analytics.OnFilterChanged(r.Context(), selectionFromQuery(r, h.analytics))
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	h.writeCached(w, r, set)
}

// HandleChart returns a single aggregate selected by the {kind} path value.
func (h *APIHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	kind, ok := models.ParseChartKind(r.PathValue("kind"))
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound(fmt.Sprintf("unknown chart %q", r.PathValue("kind"))), requestID)
		return
	}

	set, err := h.analytics.OnFilterChanged(r.Context(), selectionFromQuery(r, h.analytics))
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	h.writeCached(w, r, map[string]any{
		"kind":      kind,
		"selection": set.Selection,
		"rows":      set.Rows,
		"chart":     set.Chart(kind),
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.analytics.Loaded() {
		errors.WriteError(w, h.logger, errors.ServiceUnavailable("dataset not loaded"), observability.GetRequestID(r.Context()))
		return
	}

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}

// writeCached writes data in the success envelope with a weak ETag derived
// from the encoded body, answering 304 when the client already has it.
func (h *APIHandlers) writeCached(w http.ResponseWriter, r *http.Request, data any) {
	body, err := json.Marshal(errors.SuccessResponse{Data: data, Success: true})
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "encode response"), observability.GetRequestID(r.Context()))
		return
	}

	etag := fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", cacheControl)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
}
