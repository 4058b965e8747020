//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package event defines the events a group chat emits while it runs.
//
// The set of kinds is closed: every consumer is expected to switch over
// Kind exhaustively and decide, per kind, whether to surface or drop it.
package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/startup-eval/model"
)

// Kind identifies the variant of an Event.
type Kind string

const (
	// KindText is a plain-text message: the task echo, an assistant reply
	// or the user proxy's reply.
	KindText Kind = "text"
	// KindInputRequested is emitted by a user proxy right before it waits
	// for input.
	KindInputRequested Kind = "input_requested"
	// KindStop marks the end of the conversation and carries the reason.
	KindStop Kind = "stop"
	// KindError carries the failure of a participant or of the model.
	KindError Kind = "error"
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindText, KindInputRequested, KindStop, KindError}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindText, KindInputRequested, KindStop, KindError:
		return true
	default:
		return false
	}
}

// Stop reasons carried by KindStop events.
const (
	StopReasonMaxRounds = "max_rounds"
	StopReasonError     = "error"
)

// Event is one step of a conversation.
type Event struct {
	// ID is unique per event.
	ID string `json:"id"`
	// InvocationID ties the event to one team run.
	InvocationID string `json:"invocation_id"`
	// Kind selects which of the optional fields below are meaningful.
	Kind Kind `json:"kind"`
	// Source is the name of the participant that produced the event.
	Source string `json:"source"`
	// Content is the message text for KindText.
	Content string `json:"content,omitempty"`
	// Usage is the provider token usage of the turn, when known.
	Usage *model.Usage `json:"usage,omitempty"`
	// StopReason is set for KindStop.
	StopReason string `json:"stop_reason,omitempty"`
	// Error is set for KindError.
	Error error `json:"-"`
	// Timestamp is the creation time.
	Timestamp time.Time `json:"timestamp"`
}

// Option mutates an Event at construction time.
type Option func(*Event)

// WithUsage attaches provider token usage.
func WithUsage(usage *model.Usage) Option {
	return func(e *Event) { e.Usage = usage }
}

// New creates an event of the given kind.
func New(invocationID, source string, kind Kind, opts ...Option) *Event {
	e := &Event{
		ID:           uuid.NewString(),
		InvocationID: invocationID,
		Kind:         kind,
		Source:       source,
		Timestamp:    time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTextEvent creates a plain-text message event.
func NewTextEvent(invocationID, source, content string, opts ...Option) *Event {
	e := New(invocationID, source, KindText, opts...)
	e.Content = content
	return e
}

// NewInputRequestedEvent creates the event a proxy emits before reading input.
func NewInputRequestedEvent(invocationID, source string) *Event {
	return New(invocationID, source, KindInputRequested)
}

// NewStopEvent creates the terminal event of a conversation.
func NewStopEvent(invocationID, source, reason string) *Event {
	e := New(invocationID, source, KindStop)
	e.StopReason = reason
	return e
}

// NewErrorEvent creates an event carrying err.
func NewErrorEvent(invocationID, source string, err error) *Event {
	e := New(invocationID, source, KindError)
	e.Error = err
	return e
}

// Message converts a text event into a chat message for conversation
// history. ok is false for every other kind.
func (e *Event) Message() (msg model.Message, ok bool) {
	if e == nil || e.Kind != KindText {
		return model.Message{}, false
	}
	return model.NewUserMessage(e.Content).WithName(e.Source), true
}

// EmitWithoutTimeout makes EmitEventWithTimeout wait as long as ctx allows.
const EmitWithoutTimeout time.Duration = 0

// ErrEmitTimeout is returned when a consumer did not take an event in time.
var ErrEmitTimeout = errors.New("emit event timeout")

// EmitEvent sends e on ch, giving up when ctx is done.
// A nil event or nil channel is a no-op.
func EmitEvent(ctx context.Context, ch chan<- *Event, e *Event) error {
	return EmitEventWithTimeout(ctx, ch, e, EmitWithoutTimeout)
}

// EmitEventWithTimeout sends e on ch, giving up when ctx is done or, when
// timeout is positive, after timeout.
func EmitEventWithTimeout(ctx context.Context, ch chan<- *Event, e *Event, timeout time.Duration) error {
	if e == nil || ch == nil {
		return nil
	}
	if timeout <= EmitWithoutTimeout {
		select {
		case ch <- e:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrEmitTimeout
	}
}
