//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package proxyagent provides a participant that speaks for the human user.
package proxyagent

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/startup-eval/agent"
	"trpc.group/trpc-go/startup-eval/event"
	"trpc.group/trpc-go/startup-eval/telemetry/trace"
)

// DefaultPrompt is shown to the human when input is read interactively.
const DefaultPrompt = "Enter your response: "

var _ agent.Agent = (*ProxyAgent)(nil)

// ProxyAgent announces that it waits for input, obtains the reply from its
// InputFunc and posts it as a text message.
type ProxyAgent struct {
	name              string
	description       string
	prompt            string
	inputFunc         InputFunc
	channelBufferSize int
}

// New creates a proxy agent. Without WithInputFunc the agent restates the
// task.
func New(name string, opts ...Option) *ProxyAgent {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &ProxyAgent{
		name:              name,
		description:       o.description,
		prompt:            o.prompt,
		inputFunc:         o.inputFunc,
		channelBufferSize: o.channelBufferSize,
	}
}

// Info implements the agent.Agent interface.
func (a *ProxyAgent) Info() agent.Info {
	return agent.Info{
		Name:        a.name,
		Description: a.description,
	}
}

// Run implements the agent.Agent interface. A turn emits KindInputRequested
// followed by either KindText or KindError.
func (a *ProxyAgent) Run(ctx context.Context, invocation *agent.Invocation) (<-chan *event.Event, error) {
	if invocation == nil {
		return nil, errors.New("proxyagent: nil invocation")
	}
	ctx, span := trace.Tracer.Start(ctx, fmt.Sprintf("invoke_agent %s", a.name),
		oteltrace.WithAttributes(
			attribute.String(trace.KeyAgentName, a.name),
			attribute.String(trace.KeyInvocationID, invocation.InvocationID),
			attribute.Int(trace.KeyRound, invocation.Round),
		),
	)
	ctx = agent.NewInvocationContext(ctx, invocation)

	eventChan := make(chan *event.Event, a.channelBufferSize)
	go func() {
		defer close(eventChan)
		defer span.End()

		if err := event.EmitEvent(ctx, eventChan,
			event.NewInputRequestedEvent(invocation.InvocationID, a.name)); err != nil {
			return
		}

		reply, err := a.inputFunc(ctx, a.prompt)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			_ = event.EmitEvent(ctx, eventChan, event.NewErrorEvent(invocation.InvocationID, a.name,
				fmt.Errorf("proxyagent %s: read input: %w", a.name, err)))
			return
		}
		_ = event.EmitEvent(ctx, eventChan, event.NewTextEvent(invocation.InvocationID, a.name, reply))
	}()
	return eventChan, nil
}
