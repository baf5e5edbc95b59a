package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type narrativeMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

var (
	narrativeMetricsOnce sync.Once
	narrativeMetricsInst *narrativeMetrics
)

func ensureNarrativeMetrics() *narrativeMetrics {
	narrativeMetricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName + "/narrative")

		requestCount, err := meter.Int64Counter(
			"ai.narrative.request.count",
			metric.WithDescription("Number of text generation requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.narrative.request.duration",
			metric.WithDescription("Text generation request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.narrative.request.errors",
			metric.WithDescription("Number of failed text generation requests"),
		)
		if err != nil {
			return
		}

		narrativeMetricsInst = &narrativeMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			requestErrors:   requestErrors,
		}
	})
	return narrativeMetricsInst
}

// RecordNarrativeMetric records one call to an external text generation API.
func RecordNarrativeMetric(ctx context.Context, provider, model string, statusCode int, duration time.Duration, err error) {
	m := ensureNarrativeMetrics()
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	m.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		m.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
