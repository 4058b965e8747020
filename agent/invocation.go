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
	"github.com/google/uuid"

	"trpc.group/trpc-go/startup-eval/event"
)

// Invocation is the input of a single turn.
type Invocation struct {
	// Agent is the agent that is being invoked.
	Agent Agent
	// AgentName is the name of the agent that is being invoked.
	AgentName string
	// InvocationID identifies the whole team run; every turn of the same run
	// shares it.
	InvocationID string
	// Task is the task the run was started with.
	Task string
	// Round is the 1-based scheduling round of this turn.
	Round int
	// History holds the text events of the run so far, oldest first, the
	// task echo included. Agents must treat it as read-only.
	History []*event.Event
}

// InvocationOption configures an Invocation.
type InvocationOption func(*Invocation)

// WithInvocationID sets the invocation ID.
func WithInvocationID(id string) InvocationOption {
	return func(inv *Invocation) { inv.InvocationID = id }
}

// WithInvocationAgent sets the invoked agent and its name.
func WithInvocationAgent(a Agent) InvocationOption {
	return func(inv *Invocation) {
		inv.Agent = a
		if a != nil {
			inv.AgentName = a.Info().Name
		}
	}
}

// WithInvocationTask sets the task.
func WithInvocationTask(task string) InvocationOption {
	return func(inv *Invocation) { inv.Task = task }
}

// WithInvocationRound sets the round number.
func WithInvocationRound(round int) InvocationOption {
	return func(inv *Invocation) { inv.Round = round }
}

// WithInvocationHistory sets the conversation history.
func WithInvocationHistory(history []*event.Event) InvocationOption {
	return func(inv *Invocation) { inv.History = history }
}

// NewInvocation creates an invocation. A random ID is assigned unless one is
// given.
func NewInvocation(opts ...InvocationOption) *Invocation {
	inv := &Invocation{}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.InvocationID == "" {
		inv.InvocationID = uuid.NewString()
	}
	return inv
}

// Clone returns a shallow copy with opts applied. The history slice is
// copied so appends on the clone never reach the original.
func (inv *Invocation) Clone(opts ...InvocationOption) *Invocation {
	if inv == nil {
		return nil
	}
	clone := *inv
	clone.History = append([]*event.Event(nil), inv.History...)
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// LastText returns the content of the newest text event in History.
func (inv *Invocation) LastText() (string, bool) {
	if inv == nil {
		return "", false
	}
	for i := len(inv.History) - 1; i >= 0; i-- {
		if e := inv.History[i]; e != nil && e.Kind == event.KindText {
			return e.Content, true
		}
	}
	return "", false
}
