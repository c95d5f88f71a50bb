package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"season-dashboard/internal/charts"
	apperrors "season-dashboard/internal/errors"
	"season-dashboard/internal/models"
	"season-dashboard/internal/observability"
)

// Analytics owns the loaded dataset and answers filter changes from the dashboard.
// The dataset is replaced wholesale by LoadFromCSV or SetData and never mutated.
type Analytics struct {
	mu         sync.RWMutex
	dataset    []models.Record
	categories []string
	source     string
	loadedAt   time.Time

	chartOpts    charts.Options
	snapshotDir  string
	metrics      *observability.Metrics
	logger       *slog.Logger
	filterEvents atomic.Int64
}

type Option func(*Analytics)

func WithChartOptions(opts charts.Options) Option {
	return func(a *Analytics) {
		a.chartOpts = opts
	}
}

// WithSnapshotDir enables the parsed-dataset snapshot under dir.
func WithSnapshotDir(dir string) Option {
	return func(a *Analytics) {
		a.snapshotDir = dir
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analytics) {
		a.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) {
		a.logger = logger
	}
}

func NewAnalytics(opts ...Option) *Analytics {
	a := &Analytics{
		dataset:    []models.Record{},
		categories: []string{},
		chartOpts:  charts.DefaultOptions(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = observability.NewMetrics(nil)
	}
	return a
}

// SetData installs records directly, bypassing the CSV loader.
func (a *Analytics) SetData(records []models.Record) {
	dataset := slices.Clone(records)
	if dataset == nil {
		dataset = []models.Record{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.dataset = dataset
	a.categories = charts.DistinctCategories(dataset)
	a.source = "memory"
	a.loadedAt = time.Now()
}

func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	ctx, span := observability.StartSpan(ctx, "dashboard.load", attribute.String("file", filename))
	defer span.End()

	start := time.Now()
	source, records := "csv", []models.Record(nil)

	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}

	if a.snapshotDir != "" {
		cached, err := loadSnapshot(a.snapshotDir, abs)
		if err == nil {
			source, records = "snapshot", cached
		} else {
			a.logger.Debug("snapshot not used", "file", filename, "reason", err)
		}
	}

	if records == nil {
		a.logger.Info("processing CSV file", "filename", filename)
		records, err = LoadDataset(ctx, filename)
		if err != nil {
			observability.RecordError(span, err)
			return err
		}

		if a.snapshotDir != "" {
			if err := saveSnapshot(a.snapshotDir, abs, records); err != nil {
				a.logger.Warn("failed to save snapshot", "error", err)
			}
		}
	}

	categories := charts.DistinctCategories(records)

	a.mu.Lock()
	a.dataset = records
	a.categories = categories
	a.source = source
	a.loadedAt = time.Now()
	a.mu.Unlock()

	duration := time.Since(start)
	a.metrics.RecordLoad(ctx, source, duration)
	span.SetAttributes(attribute.Int(observability.AttrRows, len(records)))

	a.logger.Info("dataset loaded",
		"source", source,
		"records", len(records),
		"seasons", categories,
		"duration", duration,
	)

	return nil
}

// Categories returns the distinct seasons in first-seen order.
func (a *Analytics) Categories() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.categories)
}

// DefaultSelection is the first season, matching the checklist's initial state.
func (a *Analytics) DefaultSelection() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.categories) == 0 {
		return []string{}
	}
	return []string{a.categories[0]}
}

// NormalizeSelection deduplicates selection and orders it like Categories.
// Seasons absent from the dataset are rejected.
func (a *Analytics) NormalizeSelection(selection []string) ([]string, error) {
	a.mu.RLock()
	categories := a.categories
	a.mu.RUnlock()

	want := make(map[string]struct{}, len(selection))
	for _, s := range selection {
		if !slices.Contains(categories, s) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown season %q", s))
		}
		want[s] = struct{}{}
	}

	normalized := make([]string, 0, len(want))
	for _, c := range categories {
		if _, ok := want[c]; ok {
			normalized = append(normalized, c)
		}
	}
	return normalized, nil
}

// OnFilterChanged filters the dataset by selection and derives the six charts.
// An empty selection is valid and yields empty charts.
func (a *Analytics) OnFilterChanged(ctx context.Context, selection []string) (*models.ChartSet, error) {
	timing := observability.StartTiming(ctx, "derive", "filter and derive charts")
	defer timing.Stop()

	ctx, span := observability.StartSpan(ctx, "dashboard.filter_changed",
		attribute.StringSlice(observability.AttrSeasons, selection))
	defer span.End()

	normalized, err := a.NormalizeSelection(selection)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	a.mu.RLock()
	dataset := a.dataset
	a.mu.RUnlock()

	start := time.Now()
	view := charts.Filter(dataset, normalized)
	set := charts.Derive(view, a.chartOpts)
	set.Selection = normalized
	duration := time.Since(start)

	a.filterEvents.Add(1)
	a.metrics.RecordFilterChange(ctx, len(normalized), len(view), duration)
	span.SetAttributes(attribute.Int(observability.AttrViewRows, len(view)))

	a.logger.Debug("charts derived",
		"seasons", normalized,
		"rows", len(view),
		"duration", duration,
	)

	return &set, nil
}

func (a *Analytics) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.dataset) > 0
}

// Stats is used by the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":  len(a.dataset),
		"seasons":       slices.Clone(a.categories),
		"source":        a.source,
		"loaded_at":     a.loadedAt,
		"filter_events": a.filterEvents.Load(),
	}
}
