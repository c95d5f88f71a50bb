package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"season-dashboard/internal/charts"
	"season-dashboard/internal/config"
	"season-dashboard/internal/middleware"
	"season-dashboard/internal/observability"
	"season-dashboard/internal/server"
	"season-dashboard/internal/services"
	"season-dashboard/internal/ui/templates"
)

const (
	renderTimeout   = 10 * time.Second
	cleanupInterval = time.Minute
)

// dashboardHandler renders the page shell with the checklist preselected.
// Charts arrive afterwards over SSE.
func dashboardHandler(analytics *services.Analytics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")

		page := templates.Dashboard(analytics.Categories(), analytics.DefaultSelection())
		if err := page.Render(ctx, w); err != nil {
			logger.Error("dashboard render failed", "error", err,
				"request_id", observability.GetRequestID(r.Context()))
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newAnalytics(cfg *config.Config, logger *slog.Logger) *services.Analytics {
	opts := []services.Option{
		services.WithLogger(logger),
		services.WithMetrics(observability.NewMetrics(nil)),
		services.WithChartOptions(charts.Options{
			HistogramBins: cfg.Charts.HistogramBins,
			GridBins:      cfg.Charts.GridBins,
		}),
	}
	if cfg.Data.CacheEnabled {
		opts = append(opts, services.WithSnapshotDir(cfg.Data.CacheDir))
	}
	return services.NewAnalytics(opts...)
}

func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger, limiter *middleware.RateLimiter) http.Handler {
	srv := server.NewServer(analytics, logger, &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics, logger),
	})

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.ServerTiming(cfg.Observability.ServerTiming),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
	)(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"service", cfg.Observability.ServiceName,
		"addr", cfg.Address(),
		"csv_file", cfg.Data.CSVFile,
		"snapshot", cfg.Data.CacheEnabled,
	)

	analytics := newAnalytics(cfg, logger)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	err = analytics.LoadFromCSV(loadCtx, cfg.Data.CSVFile)
	cancelLoad()
	if err != nil {
		logger.Error("failed to load CSV data", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	go rateLimiter.Run(ctx, cleanupInterval)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, logger, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)
	gracefulServer.RegisterShutdownHook("analytics", func(ctx context.Context) error {
		logger.Info("analytics service stopped", "stats", analytics.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
