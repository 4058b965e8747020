//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)
	cases := []struct {
		in       string
		expected zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
	}
	for _, c := range cases {
		SetLevel(c.in)
		require.Equal(t, c.expected, zapLevel.Level(), "SetLevel(%q)", c.in)
		require.Equal(t, c.expected.String(), Level())
	}
}

func TestNew_WritesConsoleLines(t *testing.T) {
	defer SetLevel(LevelInfo)
	var buf bytes.Buffer
	l := New(&buf, 0)

	SetLevel(LevelWarn)
	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown 2")
	require.True(t, strings.Contains(out, "WARN"))
}

func TestContextHelpersUseContextDefault(t *testing.T) {
	original := ContextDefault
	defer func() { ContextDefault = original }()

	logger := &countLogger{}
	ContextDefault = logger

	ctx := context.Background()
	InfofContext(ctx, "a %s", "b")
	DebugfContext(ctx, "a")
	WarnfContext(ctx, "a")
	ErrorfContext(ctx, "a")

	require.Equal(t, 4, logger.calls)
}

type countLogger struct {
	calls int
}

func (*countLogger) Debug(args ...any)                   {}
func (c *countLogger) Debugf(format string, args ...any) { c.calls++ }
func (*countLogger) Info(args ...any)                    {}
func (c *countLogger) Infof(format string, args ...any)  { c.calls++ }
func (*countLogger) Warn(args ...any)                    {}
func (c *countLogger) Warnf(format string, args ...any)  { c.calls++ }
func (*countLogger) Error(args ...any)                   {}
func (c *countLogger) Errorf(format string, args ...any) { c.calls++ }
