package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the dashboard's metric instruments.
type Metrics struct {
	filterChanges  metric.Int64Counter
	deriveDuration metric.Float64Histogram
	viewRows       metric.Int64Histogram
	loadDuration   metric.Float64Histogram
}

// NewMetrics creates instruments on mp, or on the global provider when mp is nil.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Instrument creation only fails on invalid names; fall back to bare instruments.
	var err error

	m.filterChanges, err = meter.Int64Counter(
		"dashboard.filter.changes",
		metric.WithDescription("Filter selections processed"),
		metric.WithUnit("{selection}"),
	)
	if err != nil {
		m.filterChanges, _ = meter.Int64Counter("dashboard.filter.changes")
	}

	m.deriveDuration, err = meter.Float64Histogram(
		"dashboard.derive.duration",
		metric.WithDescription("Time spent filtering and deriving the six charts"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.deriveDuration, _ = meter.Float64Histogram("dashboard.derive.duration")
	}

	m.viewRows, err = meter.Int64Histogram(
		"dashboard.view.rows",
		metric.WithDescription("Rows left after applying the season filter"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		m.viewRows, _ = meter.Int64Histogram("dashboard.view.rows")
	}

	m.loadDuration, err = meter.Float64Histogram(
		"dashboard.load.duration",
		metric.WithDescription("Time spent loading the CSV dataset"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.loadDuration, _ = meter.Float64Histogram("dashboard.load.duration")
	}

	return m
}

func (m *Metrics) RecordFilterChange(ctx context.Context, seasons, rows int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Int(AttrSeasons, seasons))
	m.filterChanges.Add(ctx, 1, attrs)
	m.deriveDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.viewRows.Record(ctx, int64(rows), attrs)
}

func (m *Metrics) RecordLoad(ctx context.Context, source string, duration time.Duration) {
	m.loadDuration.Record(ctx, float64(duration.Microseconds())/1000,
		metric.WithAttributes(attribute.String("dashboard.load.source", source)))
}
