package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"season-dashboard/internal/errors"
	"season-dashboard/internal/models"
	"season-dashboard/internal/observability"
	"season-dashboard/internal/render"
	"season-dashboard/internal/services"
)

type ImageHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewImageHandlers(analytics *services.Analytics, logger *slog.Logger) *ImageHandlers {
	return &ImageHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleChartSVG serves /charts/{file} where file is "<kind>.svg".
func (h *ImageHandlers) HandleChartSVG(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	name, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	kind, known := models.ParseChartKind(name)
	if !ok || !known {
		errors.WriteError(w, h.logger, errors.NotFound(fmt.Sprintf("unknown chart image %q", r.PathValue("file"))), requestID)
		return
	}

	set, err := h.analytics.OnFilterChanged(r.Context(), selectionFromQuery(r, h.analytics))
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	ctx, span := observability.StartSpan(r.Context(), "chart.render_svg", attribute.String(observability.AttrChart, string(kind)))
	defer span.End()
	timing := observability.StartTiming(ctx, "render", "svg "+string(kind))

	var buf bytes.Buffer
	err = render.SVG(&buf, set, kind)
	timing.Stop()
	if err != nil {
		observability.RecordError(span, err)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "render chart"), requestID)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
