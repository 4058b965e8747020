//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package metric provides OpenTelemetry counters for evaluations.
// Instruments start on a no-op provider; InitMeterProvider or Start switch
// them to a real one.
package metric

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Metric names.
const (
	MeterName = "trpc.group/trpc-go/startup-eval"

	MetricEvaluations   = "startup_eval.evaluations"
	MetricLines         = "startup_eval.lines"
	MetricDroppedEvents = "startup_eval.events.dropped"
	MetricTokens        = "startup_eval.tokens"

	MetricEvaluationDuration = "startup_eval.evaluation.duration"
)

// Attribute keys.
const (
	KeyModel  = "gen_ai.request.model"
	KeySource = "startup_eval.source"
	KeyKind   = "startup_eval.event_kind"
	KeyStatus = "startup_eval.status"
)

const shutdownTimeout = 5 * time.Second

var (
	// MeterProvider is the provider the instruments were created from.
	MeterProvider metric.MeterProvider = noop.NewMeterProvider()

	evaluations   metric.Int64Counter
	lines         metric.Int64Counter
	droppedEvents metric.Int64Counter
	tokens        metric.Int64Counter
	durations     metric.Float64Histogram
)

// durationBuckets are the evaluation duration bucket boundaries in seconds.
var durationBuckets = []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300}

func init() {
	// The noop provider never fails.
	_ = InitMeterProvider(MeterProvider)
}

// InitMeterProvider creates the package instruments on mp.
func InitMeterProvider(mp metric.MeterProvider) error {
	meter := mp.Meter(MeterName)
	var err error
	if evaluations, err = meter.Int64Counter(
		MetricEvaluations,
		metric.WithDescription("Number of finished evaluations"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create metric %s: %w", MetricEvaluations, err)
	}
	if lines, err = meter.Int64Counter(
		MetricLines,
		metric.WithDescription("Number of transcript lines surfaced"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create metric %s: %w", MetricLines, err)
	}
	if droppedEvents, err = meter.Int64Counter(
		MetricDroppedEvents,
		metric.WithDescription("Number of non-text events dropped by the runner"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create metric %s: %w", MetricDroppedEvents, err)
	}
	if tokens, err = meter.Int64Counter(
		MetricTokens,
		metric.WithDescription("Total tokens reported by the model provider"),
		metric.WithUnit("{token}"),
	); err != nil {
		return fmt.Errorf("create metric %s: %w", MetricTokens, err)
	}
	if durations, err = meter.Float64Histogram(
		MetricEvaluationDuration,
		metric.WithDescription("Wall time of finished evaluations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return fmt.Errorf("create metric %s: %w", MetricEvaluationDuration, err)
	}
	MeterProvider = mp
	return nil
}

// RecordEvaluation counts one finished evaluation and its duration. status
// is "ok", "error" or "cancelled".
func RecordEvaluation(ctx context.Context, model, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(KeyModel, model),
		attribute.String(KeyStatus, status),
	)
	evaluations.Add(ctx, 1, attrs)
	durations.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordLine counts one surfaced line from source.
func RecordLine(ctx context.Context, source string) {
	lines.Add(ctx, 1, metric.WithAttributes(attribute.String(KeySource, source)))
}

// RecordDropped counts one dropped event of the given kind.
func RecordDropped(ctx context.Context, kind string) {
	droppedEvents.Add(ctx, 1, metric.WithAttributes(attribute.String(KeyKind, kind)))
}

// RecordTokens adds n provider tokens spent by source.
func RecordTokens(ctx context.Context, model, source string, n int) {
	if n <= 0 {
		return
	}
	tokens.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String(KeyModel, model),
		attribute.String(KeySource, source),
	))
}

type options struct {
	protocol    string
	endpoint    string
	interval    time.Duration
	serviceName string
}

// Option configures Start.
type Option func(*options)

// WithProtocol selects the OTLP transport: "grpc" (default) or "http".
func WithProtocol(protocol string) Option {
	return func(o *options) { o.protocol = protocol }
}

// WithEndpoint sets the collector host:port.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithInterval sets the export period.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithServiceName overrides the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// Start installs a periodically exporting OTLP meter provider and returns a
// cleanup that flushes and shuts it down.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	o := &options{protocol: "grpc", interval: 30 * time.Second, serviceName: "startup-eval"}
	for _, opt := range opts {
		opt(o)
	}
	if o.endpoint == "" {
		o.endpoint = metricsEndpoint(o.protocol)
	}

	var exporter sdkmetric.Exporter
	switch o.protocol {
	case "http":
		exporter, err = otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(o.endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(o.endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("create otlp %s metric exporter: %w", o.protocol, err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(o.interval))),
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(o.serviceName),
		)),
	)
	if err := InitMeterProvider(mp); err != nil {
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return mp.Shutdown(ctx)
	}, nil
}

func metricsEndpoint(protocol string) string {
	if ep := os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); ep != "" {
		return ep
	}
	if ep := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); ep != "" {
		return ep
	}
	if protocol == "http" {
		return "localhost:4318"
	}
	return "localhost:4317"
}
