//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package team

import (
	"context"
	"errors"
	"fmt"

	"trpc.group/trpc-go/startup-eval/agent"
	"trpc.group/trpc-go/startup-eval/event"
	"trpc.group/trpc-go/startup-eval/log"
)

// Engine runs a task and streams the conversation. The channel is closed
// when the conversation is over or ctx is done.
type Engine interface {
	Run(ctx context.Context, task string) (<-chan *event.Event, error)
}

var (
	errEmptyName      = errors.New("team: name is empty")
	errNoParticipants = errors.New("team: no participants")
	errNilParticipant = errors.New("team: nil participant")
	errInvalidRounds  = errors.New("team: max rounds must be positive")
	errDuplicateName  = errors.New("team: duplicate participant name")
	errEmptySource    = errors.New("team: task source is empty")
)

var _ Engine = (*RoundRobin)(nil)

// RoundRobin is a group chat with fixed cyclic speaker order.
type RoundRobin struct {
	name              string
	participants      []agent.Agent
	maxRounds         int
	taskSource        string
	channelBufferSize int
}

// NewRoundRobin creates a round-robin group chat. Participant names must be
// unique and non-empty.
func NewRoundRobin(name string, participants []agent.Agent, opts ...Option) (*RoundRobin, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if name == "" {
		return nil, errEmptyName
	}
	if len(participants) == 0 {
		return nil, errNoParticipants
	}
	if o.maxRounds <= 0 {
		return nil, fmt.Errorf("%w: %d", errInvalidRounds, o.maxRounds)
	}
	if o.taskSource == "" {
		return nil, errEmptySource
	}
	seen := make(map[string]struct{}, len(participants))
	for i, p := range participants {
		if p == nil {
			return nil, fmt.Errorf("%w at index %d", errNilParticipant, i)
		}
		n := p.Info().Name
		if n == "" {
			return nil, fmt.Errorf("team: participant %d has no name", i)
		}
		if _, ok := seen[n]; ok {
			return nil, fmt.Errorf("%w: %s", errDuplicateName, n)
		}
		seen[n] = struct{}{}
	}
	return &RoundRobin{
		name:              name,
		participants:      append([]agent.Agent(nil), participants...),
		maxRounds:         o.maxRounds,
		taskSource:        o.taskSource,
		channelBufferSize: o.channelBufferSize,
	}, nil
}

// Name returns the team name. It is the source of the final stop event.
func (t *RoundRobin) Name() string { return t.name }

// MaxRounds returns the round cap.
func (t *RoundRobin) MaxRounds() int { return t.maxRounds }

// Participants returns the participants in speaking order.
func (t *RoundRobin) Participants() []agent.Agent {
	return append([]agent.Agent(nil), t.participants...)
}

// Run starts the conversation. It schedules at most MaxRounds times
// len(Participants) turns.
func (t *RoundRobin) Run(ctx context.Context, task string) (<-chan *event.Event, error) {
	invocation := agent.NewInvocation(agent.WithInvocationTask(task))
	eventChan := make(chan *event.Event, t.channelBufferSize)

	go func() {
		defer close(eventChan)
		t.run(ctx, invocation, eventChan)
	}()
	return eventChan, nil
}

func (t *RoundRobin) run(ctx context.Context, invocation *agent.Invocation, eventChan chan<- *event.Event) {
	taskEvent := event.NewTextEvent(invocation.InvocationID, t.taskSource, invocation.Task)
	if err := event.EmitEvent(ctx, eventChan, taskEvent); err != nil {
		return
	}
	invocation.History = append(invocation.History, taskEvent)

	for round := 1; round <= t.maxRounds; round++ {
		log.DebugfContext(ctx, "team %s: round %d of %d", t.name, round, t.maxRounds)
		for _, participant := range t.participants {
			if err := agent.CheckContextCancelled(ctx); err != nil {
				return
			}
			failed, ok := t.runTurn(ctx, participant, invocation, round, eventChan)
			if !ok {
				return
			}
			if failed {
				_ = event.EmitEvent(ctx, eventChan,
					event.NewStopEvent(invocation.InvocationID, t.name, event.StopReasonError))
				return
			}
		}
	}
	_ = event.EmitEvent(ctx, eventChan,
		event.NewStopEvent(invocation.InvocationID, t.name, event.StopReasonMaxRounds))
}

// runTurn forwards one participant's events and appends its text messages
// to the shared history. failed reports an error event; ok is false once
// the consumer is gone.
func (t *RoundRobin) runTurn(
	ctx context.Context,
	participant agent.Agent,
	invocation *agent.Invocation,
	round int,
	eventChan chan<- *event.Event,
) (failed bool, ok bool) {
	turn := invocation.Clone(
		agent.WithInvocationAgent(participant),
		agent.WithInvocationRound(round),
	)
	turnCtx, cancel := context.WithCancel(agent.NewInvocationContext(ctx, turn))
	defer cancel()

	turnEvents, err := participant.Run(turnCtx, turn)
	if err != nil {
		errEvent := event.NewErrorEvent(invocation.InvocationID, turn.AgentName,
			fmt.Errorf("team %s: start %s: %w", t.name, turn.AgentName, err))
		return true, event.EmitEvent(ctx, eventChan, errEvent) == nil
	}

	for evt := range turnEvents {
		if evt == nil {
			continue
		}
		if err := event.EmitEvent(ctx, eventChan, evt); err != nil {
			return false, false
		}
		switch evt.Kind {
		case event.KindText:
			invocation.History = append(invocation.History, evt)
		case event.KindError:
			failed = true
		}
		if failed {
			return true, true
		}
	}
	return false, true
}
