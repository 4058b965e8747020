//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package llmagent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/startup-eval/agent"
	"trpc.group/trpc-go/startup-eval/event"
	"trpc.group/trpc-go/startup-eval/model"
)

type mockModel struct {
	content  string
	usage    *model.Usage
	rspErr   *model.ResponseError
	startErr error
	requests []*model.Request
}

func (m *mockModel) GenerateContent(ctx context.Context, req *model.Request) (<-chan *model.Response, error) {
	m.requests = append(m.requests, req)
	if m.startErr != nil {
		return nil, m.startErr
	}
	ch := make(chan *model.Response, 1)
	rsp := &model.Response{Done: true, Usage: m.usage, Error: m.rspErr}
	if m.rspErr == nil {
		rsp.Choices = []model.Choice{{Message: model.NewAssistantMessage(m.content)}}
	}
	ch <- rsp
	close(ch)
	return ch, nil
}

func (m *mockModel) Info() model.Info {
	return model.Info{Name: "mock-model"}
}

func runTurn(t *testing.T, a *LLMAgent, inv *agent.Invocation) []*event.Event {
	t.Helper()
	ch, err := a.Run(context.Background(), inv)
	require.NoError(t, err)
	var events []*event.Event
	for e := range ch {
		events = append(events, e)
	}
	return events
}

func TestNew(t *testing.T) {
	m := &mockModel{}
	a := New("market_agent",
		WithModel(m),
		WithDescription("make a comprehensive market research."),
		WithInstruction("You are a Market Research Analyst."),
		WithChannelBufferSize(-1),
	)
	require.Equal(t, agent.Info{Name: "market_agent", Description: "make a comprehensive market research."}, a.Info())
	require.Equal(t, "You are a Market Research Analyst.", a.Instruction())
	require.Same(t, m, a.Model())
	require.Equal(t, defaultChannelBufferSize, a.channelBufferSize)
}

func TestLLMAgent_Run(t *testing.T) {
	m := &mockModel{content: "Big TAM", usage: &model.Usage{TotalTokens: 13}}
	a := New("market_agent", WithModel(m), WithInstruction("You are a Market Research Analyst."))

	inv := agent.NewInvocation(
		agent.WithInvocationID("inv-1"),
		agent.WithInvocationHistory([]*event.Event{
			event.NewTextEvent("inv-1", "user", "Evaluate this startup idea:  **x** "),
			event.NewTextEvent("inv-1", "market_agent", "earlier reply"),
			event.NewInputRequestedEvent("inv-1", "UserProxy"),
			event.NewTextEvent("inv-1", "UserProxy", "restated idea"),
		}),
	)
	events := runTurn(t, a, inv)
	require.Len(t, events, 1)
	require.Equal(t, event.KindText, events[0].Kind)
	require.Equal(t, "market_agent", events[0].Source)
	require.Equal(t, "Big TAM", events[0].Content)
	require.Equal(t, "inv-1", events[0].InvocationID)
	require.Equal(t, 13, events[0].Usage.TotalTokens)

	require.Len(t, m.requests, 1)
	require.Equal(t, []model.Message{
		model.NewSystemMessage("You are a Market Research Analyst."),
		model.NewUserMessage("Evaluate this startup idea:  **x** ").WithName("user"),
		model.NewAssistantMessage("earlier reply").WithName("market_agent"),
		model.NewUserMessage("restated idea").WithName("UserProxy"),
	}, m.requests[0].Messages)
}

func TestLLMAgent_RunErrors(t *testing.T) {
	startErr := errors.New("dial failed")
	rspErr := &model.ResponseError{Type: model.ErrorTypeAPIError, Message: "invalid api key"}

	tests := []struct {
		name    string
		model   *mockModel
		wantErr error
	}{
		{name: "start error", model: &mockModel{startErr: startErr}, wantErr: startErr},
		{name: "response error", model: &mockModel{rspErr: rspErr}, wantErr: rspErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New("tech_agent", WithModel(tt.model))
			events := runTurn(t, a, agent.NewInvocation())
			require.Len(t, events, 1)
			require.Equal(t, event.KindError, events[0].Kind)
			require.Equal(t, "tech_agent", events[0].Source)
			require.ErrorIs(t, events[0].Error, tt.wantErr)
		})
	}
}

func TestLLMAgent_RunWithoutModel(t *testing.T) {
	a := New("tech_agent")
	_, err := a.Run(context.Background(), agent.NewInvocation())
	require.ErrorIs(t, err, errNoModel)

	a = New("tech_agent", WithModel(&mockModel{}))
	_, err = a.Run(context.Background(), nil)
	require.Error(t, err)
}
