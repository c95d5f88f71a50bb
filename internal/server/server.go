package server

import (
	"log/slog"
	"net/http"

	"season-dashboard/internal/handlers"
	"season-dashboard/internal/middleware"
	"season-dashboard/internal/observability"
	"season-dashboard/internal/services"
	"season-dashboard/internal/ui/static"
)

type Server struct {
	analytics     *services.Analytics
	mux           *http.ServeMux
	logger        *slog.Logger
	apiHandlers   *handlers.APIHandlers
	sseHandlers   *handlers.SSEHandlers
	imageHandlers *handlers.ImageHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:     analytics,
		mux:           http.NewServeMux(),
		logger:        logger,
		apiHandlers:   handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:   handlers.NewSSEHandlers(analytics, logger),
		imageHandlers: handlers.NewImageHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.Handle("GET /static/", static.Handler("/static/"))
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	compress := middleware.Compress(s.logger)
	s.mux.Handle("GET /api/categories", compress(http.HandlerFunc(s.apiHandlers.HandleCategories)))
	s.mux.Handle("GET /api/charts", compress(http.HandlerFunc(s.apiHandlers.HandleCharts)))
	s.mux.Handle("GET /api/charts/{kind}", compress(http.HandlerFunc(s.apiHandlers.HandleChart)))

	// Static chart export
	s.mux.HandleFunc("GET /charts/{file}", s.imageHandlers.HandleChartSVG)

	// Datastar SSE endpoint driven by the season checklist
	s.mux.HandleFunc("GET /sse/charts", s.sseHandlers.HandleCharts)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := s.mux.Handler(r); pattern != "" {
		observability.SetRoute(r.Context(), pattern)
	}
	s.mux.ServeHTTP(w, r)
}
