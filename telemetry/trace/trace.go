//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package trace wires OpenTelemetry tracing for evaluations. Until Start is
// called every span goes to a no-op provider.
package trace

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentName is the instrumentation scope of every tracer created here.
const InstrumentName = "trpc.group/trpc-go/startup-eval"

// Span attribute keys.
const (
	KeyEvaluationID = "startup_eval.evaluation_id"
	KeyInvocationID = "startup_eval.invocation_id"
	KeyAgentName    = "gen_ai.agent.name"
	KeyRequestModel = "gen_ai.request.model"
	KeyRound        = "startup_eval.round"
	KeyTopic        = "startup_eval.topic"
)

const (
	protocolGRPC = "grpc"
	protocolHTTP = "http"

	defaultServiceName  = "startup-eval"
	defaultGRPCEndpoint = "localhost:4317"
	defaultHTTPEndpoint = "localhost:4318"

	shutdownTimeout = 5 * time.Second
)

var (
	// TracerProvider is the provider spans are created from.
	TracerProvider trace.TracerProvider = noop.NewTracerProvider()
	// Tracer is the tracer used by the team, agents and model clients.
	Tracer trace.Tracer = TracerProvider.Tracer(InstrumentName)
)

type options struct {
	protocol    string
	endpoint    string
	endpointURL string
	headers     map[string]string
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

// WithEndpointURL sets a full collector URL. For http it also carries the
// URL path; it wins over WithEndpoint.
func WithEndpointURL(u string) Option {
	return func(o *options) { o.endpointURL = u }
}

// WithHeaders adds headers to every export request.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) { o.headers = headers }
}

// WithServiceName overrides the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// Start installs an OTLP exporting tracer provider and returns a cleanup
// that flushes and shuts it down.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	o := &options{protocol: protocolGRPC, serviceName: defaultServiceName}
	for _, opt := range opts {
		opt(o)
	}
	if o.endpoint == "" {
		o.endpoint = tracesEndpoint(o.protocol)
	}

	var exporter sdktrace.SpanExporter
	switch o.protocol {
	case protocolHTTP:
		exporter, err = newHTTPExporter(ctx, o)
	default:
		exporter, err = newGRPCExporter(ctx, o)
	}
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(o.serviceName),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	SetTracerProvider(tp)
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// SetTracerProvider replaces the provider and the package Tracer. Tests use
// it with an in-memory recorder.
func SetTracerProvider(tp trace.TracerProvider) {
	TracerProvider = tp
	Tracer = tp.Tracer(InstrumentName)
	otel.SetTracerProvider(tp)
}

func newGRPCExporter(ctx context.Context, o *options) (sdktrace.SpanExporter, error) {
	grpcOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(o.endpoint),
		otlptracegrpc.WithInsecure(),
	}
	if o.endpointURL != "" {
		grpcOpts = append(grpcOpts, otlptracegrpc.WithEndpointURL(o.endpointURL))
	}
	if len(o.headers) > 0 {
		grpcOpts = append(grpcOpts, otlptracegrpc.WithHeaders(o.headers))
	}
	exp, err := otlptracegrpc.New(ctx, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp grpc trace exporter: %w", err)
	}
	return exp, nil
}

func newHTTPExporter(ctx context.Context, o *options) (sdktrace.SpanExporter, error) {
	httpOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(o.endpoint),
		otlptracehttp.WithInsecure(),
	}
	if o.endpointURL != "" {
		endpoint, path, err := parseEndpointURL(o.endpointURL)
		if err != nil {
			return nil, err
		}
		httpOpts = append(httpOpts,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithURLPath(path),
		)
	}
	if len(o.headers) > 0 {
		httpOpts = append(httpOpts, otlptracehttp.WithHeaders(o.headers))
	}
	exp, err := otlptracehttp.New(ctx, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp http trace exporter: %w", err)
	}
	return exp, nil
}

// tracesEndpoint resolves the collector address from the standard OTEL
// variables, falling back to the protocol default.
func tracesEndpoint(protocol string) string {
	if ep := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); ep != "" {
		return ep
	}
	if ep := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); ep != "" {
		return ep
	}
	if protocol == protocolHTTP {
		return defaultHTTPEndpoint
	}
	return defaultGRPCEndpoint
}

// parseEndpointURL splits a collector URL into host:port and path. A
// missing scheme is treated as http.
func parseEndpointURL(raw string) (endpoint, path string, err error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse endpoint url %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("endpoint url %q has no host", raw)
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return u.Host, path, nil
}
