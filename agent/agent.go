//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package agent defines the participant contract of a group chat.
package agent

import (
	"context"

	"trpc.group/trpc-go/startup-eval/event"
)

// Agent is one participant of a conversation.
type Agent interface {
	// Run takes one turn. The returned channel carries the events of that
	// turn and is closed when the turn is over. Returned errors mean the
	// turn could not start; failures during the turn arrive as
	// event.KindError.
	Run(ctx context.Context, invocation *Invocation) (<-chan *event.Event, error)

	// Info returns the basic information about this agent.
	Info() Info
}

// Info contains basic information about an agent.
type Info struct {
	// Name is the unique name of the agent within a team. It is also the
	// Source of every event the agent emits.
	Name string
	// Description is a short role description.
	Description string
}
