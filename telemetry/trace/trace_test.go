//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestTracesEndpoint(t *testing.T) {
	const (
		customEndpoint  = "custom-trace:4317"
		genericEndpoint = "generic-endpoint:4317"
	)

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", customEndpoint)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", genericEndpoint)
	require.Equal(t, customEndpoint, tracesEndpoint(protocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	require.Equal(t, genericEndpoint, tracesEndpoint(protocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	require.Equal(t, defaultGRPCEndpoint, tracesEndpoint(protocolGRPC))
	require.Equal(t, defaultHTTPEndpoint, tracesEndpoint(protocolHTTP))
}

func TestParseEndpointURL(t *testing.T) {
	cases := []struct {
		name      string
		in        string
		endpoint  string
		urlPath   string
		wantError bool
	}{
		{"with scheme and path", "http://localhost:3000/api/public/otel", "localhost:3000", "/api/public/otel", false},
		{"without scheme", "collector:4318/otlp/v1/traces", "collector:4318", "/otlp/v1/traces", false},
		{"no path implies slash", "example.com", "example.com", "/", false},
		{"no host error", "http:///missing-host", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			endp, path, err := parseEndpointURL(tc.in)
			if tc.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.endpoint, endp)
			require.Equal(t, tc.urlPath, path)
		})
	}
}

func TestStart_HTTPAndGRPC(t *testing.T) {
	defer SetTracerProvider(noop.NewTracerProvider())

	for _, protocol := range []string{protocolGRPC, protocolHTTP} {
		clean, err := Start(context.Background(),
			WithProtocol(protocol),
			WithHeaders(map[string]string{"k": "v"}),
			WithServiceName("startup-eval-test"),
		)
		require.NoError(t, err, protocol)
		require.NotNil(t, clean)
		_, span := Tracer.Start(context.Background(), "test-span")
		span.End()
		// No collector is running, so a flush error is expected.
		_ = clean()
	}
}

func TestStart_InvalidHTTPEndpointURL(t *testing.T) {
	_, err := Start(context.Background(),
		WithProtocol(protocolHTTP),
		WithEndpointURL("http:///bad"),
	)
	require.Error(t, err)
}

func TestSetTracerProvider_RecordsSpans(t *testing.T) {
	defer SetTracerProvider(noop.NewTracerProvider())

	recorder := tracetest.NewSpanRecorder()
	SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	_, span := Tracer.Start(context.Background(), "evaluate")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "evaluate", ended[0].Name())
	require.Equal(t, InstrumentName, ended[0].InstrumentationScope().Name)
}
