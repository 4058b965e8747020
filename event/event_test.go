//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/startup-eval/model"
)

func TestNewTextEvent(t *testing.T) {
	const (
		invocationID = "invocation-123"
		source       = "market_agent"
	)

	usage := &model.Usage{TotalTokens: 12}
	evt := NewTextEvent(invocationID, source, "Big TAM", WithUsage(usage))
	require.Equal(t, invocationID, evt.InvocationID)
	require.Equal(t, source, evt.Source)
	require.Equal(t, KindText, evt.Kind)
	require.Equal(t, "Big TAM", evt.Content)
	require.Same(t, usage, evt.Usage)
	require.NotEmpty(t, evt.ID)
	require.WithinDuration(t, time.Now(), evt.Timestamp, 2*time.Second)
}

func TestConstructors_SetKind(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		evt  *Event
		kind Kind
	}{
		{"input requested", NewInputRequestedEvent("inv", "UserProxy"), KindInputRequested},
		{"stop", NewStopEvent("inv", "team", StopReasonMaxRounds), KindStop},
		{"error", NewErrorEvent("inv", "tech_agent", boom), KindError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.kind, tc.evt.Kind)
			require.True(t, tc.evt.Kind.IsValid())
		})
	}
	require.Equal(t, StopReasonMaxRounds, cases[1].evt.StopReason)
	require.ErrorIs(t, cases[2].evt.Error, boom)
	require.False(t, Kind("tool_call").IsValid())
	require.Len(t, Kinds, 4)
}

func TestEvent_Message(t *testing.T) {
	msg, ok := NewTextEvent("inv", "financial_agent", "Break-even in 18mo").Message()
	require.True(t, ok)
	require.Equal(t, "financial_agent", msg.Name)
	require.Equal(t, "Break-even in 18mo", msg.Content)

	_, ok = NewStopEvent("inv", "team", StopReasonMaxRounds).Message()
	require.False(t, ok)

	var nilEvt *Event
	_, ok = nilEvt.Message()
	require.False(t, ok)
}

func TestEmitEventWithTimeout(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		ch      chan *Event
		e       *Event
		timeout time.Duration
		wantErr error
	}{
		{"nil event", context.Background(), make(chan *Event), nil, EmitWithoutTimeout, nil},
		{"nil channel", context.Background(), nil, New("inv", "a", KindText), EmitWithoutTimeout, nil},
		{"buffered without timeout", context.Background(), make(chan *Event, 1), New("inv", "a", KindText), EmitWithoutTimeout, nil},
		{"buffered with timeout", context.Background(), make(chan *Event, 1), New("inv", "a", KindText), time.Second, nil},
		{"context cancelled", cancelled, make(chan *Event), New("inv", "a", KindText), time.Second, context.Canceled},
		{"context cancelled without timeout", cancelled, make(chan *Event), New("inv", "a", KindText), EmitWithoutTimeout, context.Canceled},
		{"timeout", context.Background(), make(chan *Event), New("inv", "a", KindText), time.Millisecond, ErrEmitTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ch chan<- *Event
			if tt.ch != nil {
				ch = tt.ch
			}
			err := EmitEventWithTimeout(tt.ctx, ch, tt.e, tt.timeout)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEmitEvent_Delivers(t *testing.T) {
	ch := make(chan *Event, 1)
	e := New("inv", "a", KindText)
	require.NoError(t, EmitEvent(context.Background(), ch, e))
	require.Same(t, e, <-ch)
}
