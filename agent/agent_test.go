//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/startup-eval/event"
)

type mockAgent struct {
	name string
}

func (a *mockAgent) Run(ctx context.Context, invocation *Invocation) (<-chan *event.Event, error) {
	return nil, nil
}

func (a *mockAgent) Info() Info {
	return Info{Name: a.name}
}

func TestNewInvocation(t *testing.T) {
	a := &mockAgent{name: "market_agent"}
	inv := NewInvocation(
		WithInvocationID("test-invocation"),
		WithInvocationAgent(a),
		WithInvocationTask("Evaluate this startup idea:  **x** "),
		WithInvocationRound(2),
	)
	require.Equal(t, "test-invocation", inv.InvocationID)
	require.Equal(t, "market_agent", inv.AgentName)
	require.Same(t, a, inv.Agent)
	require.Equal(t, 2, inv.Round)

	require.NotEmpty(t, NewInvocation().InvocationID)
}

func TestInvocation_CloneIsolatesHistory(t *testing.T) {
	first := event.NewTextEvent("inv", "user", "task")
	inv := NewInvocation(WithInvocationHistory([]*event.Event{first}))

	clone := inv.Clone(WithInvocationAgent(&mockAgent{name: "tech_agent"}))
	clone.History = append(clone.History, event.NewTextEvent("inv", "tech_agent", "ok"))

	require.Len(t, inv.History, 1)
	require.Len(t, clone.History, 2)
	require.Equal(t, inv.InvocationID, clone.InvocationID)
	require.Equal(t, "tech_agent", clone.AgentName)
	require.Empty(t, inv.AgentName)

	var nilInv *Invocation
	require.Nil(t, nilInv.Clone())
}

func TestInvocation_LastText(t *testing.T) {
	inv := NewInvocation(WithInvocationHistory([]*event.Event{
		event.NewTextEvent("inv", "user", "task"),
		event.NewTextEvent("inv", "market_agent", "Big TAM"),
		event.NewInputRequestedEvent("inv", "UserProxy"),
	}))
	got, ok := inv.LastText()
	require.True(t, ok)
	require.Equal(t, "Big TAM", got)

	_, ok = NewInvocation().LastText()
	require.False(t, ok)
}

func TestInvocationContext(t *testing.T) {
	inv := NewInvocation(WithInvocationID("ctx-inv"))
	ctx := NewInvocationContext(context.Background(), inv)

	got, ok := InvocationFromContext(ctx)
	require.True(t, ok)
	require.Same(t, inv, got)

	_, ok = InvocationFromContext(context.Background())
	require.False(t, ok)
}

func TestCheckContextCancelled(t *testing.T) {
	require.NoError(t, CheckContextCancelled(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, CheckContextCancelled(ctx), context.Canceled)
}
