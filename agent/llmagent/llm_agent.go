//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package llmagent provides an LLM agent implementation.
package llmagent

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/startup-eval/agent"
	"trpc.group/trpc-go/startup-eval/event"
	"trpc.group/trpc-go/startup-eval/log"
	"trpc.group/trpc-go/startup-eval/model"
	"trpc.group/trpc-go/startup-eval/telemetry/metric"
	"trpc.group/trpc-go/startup-eval/telemetry/trace"
)

var _ agent.Agent = (*LLMAgent)(nil)

var errNoModel = errors.New("llmagent: no model configured")

// LLMAgent answers one chat completion per turn: its instruction as the
// system message followed by the conversation so far.
type LLMAgent struct {
	name              string
	model             model.Model
	description       string
	instruction       string
	genConfig         model.GenerationConfig
	channelBufferSize int
}

// New creates a new LLMAgent with the given options.
func New(name string, opts ...Option) *LLMAgent {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &LLMAgent{
		name:              name,
		model:             options.Model,
		description:       options.Description,
		instruction:       options.Instruction,
		genConfig:         options.GenerationConfig,
		channelBufferSize: options.ChannelBufferSize,
	}
}

// Info implements the agent.Agent interface.
func (a *LLMAgent) Info() agent.Info {
	return agent.Info{
		Name:        a.name,
		Description: a.description,
	}
}

// Instruction returns the system message of the agent.
func (a *LLMAgent) Instruction() string {
	return a.instruction
}

// Model returns the model the agent talks to.
func (a *LLMAgent) Model() model.Model {
	return a.model
}

// Run implements the agent.Agent interface. The turn yields a single text
// event, or a single error event when the model fails.
func (a *LLMAgent) Run(ctx context.Context, invocation *agent.Invocation) (<-chan *event.Event, error) {
	if a.model == nil {
		return nil, errNoModel
	}
	if invocation == nil {
		return nil, errors.New("llmagent: nil invocation")
	}

	ctx, span := trace.Tracer.Start(ctx, fmt.Sprintf("invoke_agent %s", a.name),
		oteltrace.WithAttributes(
			attribute.String(trace.KeyAgentName, a.name),
			attribute.String(trace.KeyInvocationID, invocation.InvocationID),
			attribute.String(trace.KeyRequestModel, a.model.Info().Name),
			attribute.Int(trace.KeyRound, invocation.Round),
		),
	)

	eventChan := make(chan *event.Event, a.channelBufferSize)
	go func() {
		defer close(eventChan)
		defer span.End()

		evt := a.generate(ctx, invocation)
		if evt.Kind == event.KindError {
			span.SetStatus(codes.Error, evt.Error.Error())
		}
		if err := event.EmitEvent(ctx, eventChan, evt); err != nil {
			log.DebugfContext(ctx, "llmagent %s: event not delivered: %v", a.name, err)
		}
	}()
	return eventChan, nil
}

func (a *LLMAgent) generate(ctx context.Context, invocation *agent.Invocation) *event.Event {
	request := &model.Request{
		Messages:         a.buildMessages(invocation.History),
		GenerationConfig: a.genConfig,
	}
	responseChan, err := a.model.GenerateContent(ctx, request)
	if err != nil {
		return event.NewErrorEvent(invocation.InvocationID, a.name, err)
	}

	var final *model.Response
	for rsp := range responseChan {
		if rsp == nil {
			continue
		}
		if rsp.Error != nil {
			return event.NewErrorEvent(invocation.InvocationID, a.name, rsp.Error)
		}
		if rsp.Done {
			final = rsp
		}
	}
	if final == nil {
		if err := ctx.Err(); err != nil {
			return event.NewErrorEvent(invocation.InvocationID, a.name, err)
		}
		return event.NewErrorEvent(invocation.InvocationID, a.name,
			fmt.Errorf("llmagent %s: model closed the stream without a final response", a.name))
	}

	var opts []event.Option
	if final.Usage != nil {
		metric.RecordTokens(ctx, a.model.Info().Name, a.name, final.Usage.TotalTokens)
		opts = append(opts, event.WithUsage(final.Usage))
	}
	return event.NewTextEvent(invocation.InvocationID, a.name, final.Content(), opts...)
}

// buildMessages turns the conversation into a chat request. Turns of this
// agent are replayed as assistant messages, everybody else speaks as a
// named user.
func (a *LLMAgent) buildMessages(history []*event.Event) []model.Message {
	messages := make([]model.Message, 0, len(history)+1)
	if a.instruction != "" {
		messages = append(messages, model.NewSystemMessage(a.instruction))
	}
	for _, e := range history {
		msg, ok := e.Message()
		if !ok {
			continue
		}
		if e.Source == a.name {
			msg.Role = model.RoleAssistant
		}
		messages = append(messages, msg)
	}
	return model.SanitizeMessages(messages)
}
