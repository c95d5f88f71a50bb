package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	apperrors "season-dashboard/internal/errors"
	"season-dashboard/internal/models"
	"season-dashboard/internal/services"
	"season-dashboard/internal/ui/templates"
)

// filterSignals is the part of the datastar store sent by the season checklist.
type filterSignals struct {
	Seasons []string `json:"seasons"`
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderFragment(r *http.Request, c templ.Component) (string, error) {
	var buf strings.Builder
	err := c.Render(r.Context(), &buf)
	return buf.String(), err
}

// HandleCharts is the filter-change callback: it reads the seasons signal and
// patches the charts signal with the freshly derived ChartSet.
func (h *SSEHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	signals := &filterSignals{}
	readErr := datastar.ReadSignals(r, signals)

	// Derive before opening the stream so response headers carry the timings.
	var (
		set *models.ChartSet
		err error
	)
	if readErr == nil {
		set, err = h.analytics.OnFilterChanged(r.Context(), signals.Seasons)
	}

	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		h.logger.Warn("read signals", "error", readErr)
		h.patchError(sse, r, "Seleção inválida")
		return
	}

	if err != nil {
		msg := "Falha ao gerar os gráficos"
		var appErr *apperrors.AppError
		if apperrors.HasCode(err, apperrors.CodeValidation) && errors.As(err, &appErr) {
			msg = appErr.Message
		} else {
			h.logger.Error("derive charts", "error", err)
		}
		h.patchError(sse, r, msg)
		return
	}

	jsonData, err := json.Marshal(map[string]*models.ChartSet{
		"charts": set,
	})
	if err != nil {
		h.logger.Error("marshal charts", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Debug("patch signals", "error", err)
		return
	}

	html, err := h.renderFragment(r, templates.ChartSummary(set))
	if err != nil {
		h.logger.Error("render chart summary", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patchError(sse *datastar.ServerSentEventGenerator, r *http.Request, message string) {
	html, err := h.renderFragment(r, templates.FilterError(message))
	if err != nil {
		h.logger.Error("render filter error", "error", err)
		return
	}
	sse.PatchElements(html)
}
