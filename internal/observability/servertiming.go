package observability

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
)

// TimingMetric is a Server-Timing entry that is a no-op when the request
// was not wrapped by the server-timing middleware.
type TimingMetric struct {
	metric *servertiming.Metric
}

func (m *TimingMetric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

func StartTiming(ctx context.Context, name, description string) *TimingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &TimingMetric{}
	}

	metric := timing.NewMetric(name)
	if description != "" {
		metric = metric.WithDesc(description)
	}
	return &TimingMetric{metric: metric.Start()}
}
