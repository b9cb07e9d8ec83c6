// Package metrics records command-processing metrics through the
// OpenTelemetry metrics API. Production wiring exports them to Prometheus
// (see NewPrometheusProvider); tests use a ManualReader.
package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "jarvis"

// latencyBuckets in seconds, sized for model round trips
var latencyBuckets = []float64{
	0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// Metrics holds the instruments used across the service.
// All instruments are safe for concurrent use.
type Metrics struct {
	// IntentsClassified counts classifications by intent kind and rule
	IntentsClassified metric.Int64Counter

	// DispatchDuration tracks dispatch latency by action kind
	DispatchDuration metric.Float64Histogram

	// GenerationFailures counts collaborator errors by generator
	GenerationFailures metric.Int64Counter

	// HistoryWrites counts history appends by status
	HistoryWrites metric.Int64Counter

	// HTTPRequestDuration tracks request latency by method, route and status
	HTTPRequestDuration metric.Float64Histogram
}

// New creates the instruments on the given provider
func New(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.IntentsClassified, err = m.Int64Counter("jarvis.intents.classified",
		metric.WithDescription("Transcripts classified by intent kind and matching rule."),
	); err != nil {
		return nil, err
	}
	if met.DispatchDuration, err = m.Float64Histogram("jarvis.dispatch.duration",
		metric.WithDescription("Latency of intent dispatch by resulting action."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.GenerationFailures, err = m.Int64Counter("jarvis.generation.failures",
		metric.WithDescription("Generator calls that ended in an error result."),
	); err != nil {
		return nil, err
	}
	if met.HistoryWrites, err = m.Int64Counter("jarvis.history.writes",
		metric.WithDescription("History appends by status."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("jarvis.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// Noop returns metrics that record nothing
func Noop() *Metrics {
	m, err := New(noop.NewMeterProvider())
	if err != nil {
		panic("metrics: noop provider failed: " + err.Error())
	}
	return m
}

// RecordIntent counts one classification
func (m *Metrics) RecordIntent(ctx context.Context, kind, rule string) {
	m.IntentsClassified.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("rule", rule),
	))
}

// RecordDispatch observes one dispatch
func (m *Metrics) RecordDispatch(ctx context.Context, action string, took time.Duration) {
	m.DispatchDuration.Record(ctx, took.Seconds(), metric.WithAttributes(
		attribute.String("action", action),
	))
}

// RecordGenerationFailure counts one failed generator call
func (m *Metrics) RecordGenerationFailure(ctx context.Context, generator string) {
	m.GenerationFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("generator", generator),
	))
}

// RecordHistoryWrite counts one history append; status is "ok", "skipped" or "error"
func (m *Metrics) RecordHistoryWrite(ctx context.Context, status string) {
	m.HistoryWrites.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

// RecordHTTPRequest observes one served request
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, took time.Duration) {
	m.HTTPRequestDuration.Record(ctx, took.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	))
}
