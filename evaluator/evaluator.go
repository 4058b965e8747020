//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package evaluator builds the startup evaluation team and turns its
// conversation into display lines.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/startup-eval/event"
	"trpc.group/trpc-go/startup-eval/log"
	"trpc.group/trpc-go/startup-eval/telemetry/metric"
	"trpc.group/trpc-go/startup-eval/telemetry/trace"
	"trpc.group/trpc-go/startup-eval/team"
)

// ErrEmptyTopic is returned for a topic that is empty or only whitespace.
var ErrEmptyTopic = errors.New("evaluator: topic is empty")

const (
	statusOK        = "ok"
	statusError     = "error"
	statusCancelled = "cancelled"
)

// TaskPrompt formats the task posted to the team. The topic is embedded
// verbatim.
func TaskPrompt(topic string) string {
	return "Evaluate this startup idea:  **" + topic + "** "
}

// Update is one item of an evaluation stream: a transcript line, or the
// error that ended the stream.
type Update struct {
	// Source is the participant that produced the message.
	Source string
	// Content is the message text.
	Content string
	// Line is "<source>: <content>".
	Line string
	// Err is set on the last update when a participant failed.
	Err error
}

// Evaluator runs evaluations. It holds configuration only, every Run builds
// a fresh team.
type Evaluator struct {
	cfg  Config
	opts []Option
}

// New creates an Evaluator.
func New(cfg Config, opts ...Option) *Evaluator {
	return &Evaluator{
		cfg:  cfg.withDefaults(),
		opts: opts,
	}
}

// Config returns the effective configuration.
func (e *Evaluator) Config() Config {
	return e.cfg
}

// Run evaluates topic. Updates are delivered on an unbuffered channel that
// is closed when the conversation ends, after an error update, or once ctx
// is done. Cancelling ctx stops the team.
func (e *Evaluator) Run(ctx context.Context, topic string) (<-chan Update, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}
	engine, err := e.newEngine()
	if err != nil {
		return nil, fmt.Errorf("evaluator: build team: %w", err)
	}

	evaluationID := uuid.NewString()
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	ctx, span := trace.Tracer.Start(ctx, "evaluate", oteltrace.WithAttributes(
		attribute.String(trace.KeyEvaluationID, evaluationID),
		attribute.String(trace.KeyRequestModel, e.cfg.Model),
		attribute.String(trace.KeyTopic, topic),
	))

	events, err := engine.Run(ctx, TaskPrompt(topic))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.End()
		cancel()
		return nil, fmt.Errorf("evaluator: run team: %w", err)
	}
	log.InfofContext(ctx, "evaluation %s started, model %s", evaluationID, e.cfg.Model)

	updates := make(chan Update)
	go func() {
		defer close(updates)
		defer cancel()
		defer span.End()

		status := e.forward(ctx, evaluationID, events, updates)
		if status == statusError {
			span.SetStatus(codes.Error, "participant failed")
		}
		metric.RecordEvaluation(context.WithoutCancel(ctx), e.cfg.Model, status, time.Since(start))
		log.InfofContext(ctx, "evaluation %s finished: %s", evaluationID, status)
	}()
	return updates, nil
}

func (e *Evaluator) newEngine() (team.Engine, error) {
	o := newOptions(e.opts...)
	if o.engineFactory != nil {
		return o.engineFactory(e.cfg)
	}
	return BuildTeam(e.cfg, e.opts...)
}

// forward applies the per-kind policy and returns the final status.
func (e *Evaluator) forward(
	ctx context.Context,
	evaluationID string,
	events <-chan *event.Event,
	updates chan<- Update,
) string {
	send := func(u Update) bool {
		select {
		case updates <- u:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for evt := range events {
		if evt == nil {
			continue
		}
		switch evt.Kind {
		case event.KindText:
			line := evt.Source + ": " + evt.Content
			if !send(Update{Source: evt.Source, Content: evt.Content, Line: line}) {
				return statusCancelled
			}
			metric.RecordLine(ctx, evt.Source)
		case event.KindInputRequested:
			log.DebugfContext(ctx, "evaluation %s: dropped %s from %s", evaluationID, evt.Kind, evt.Source)
			metric.RecordDropped(ctx, evt.Kind.String())
		case event.KindStop:
			log.DebugfContext(ctx, "evaluation %s: stopped by %s: %s", evaluationID, evt.Source, evt.StopReason)
			metric.RecordDropped(ctx, evt.Kind.String())
		case event.KindError:
			err := evt.Error
			if err == nil {
				err = fmt.Errorf("%s reported an error without details", evt.Source)
			}
			log.WarnfContext(ctx, "evaluation %s: %s failed: %v", evaluationID, evt.Source, err)
			send(Update{Source: evt.Source, Err: err})
			return statusError
		default:
			log.WarnfContext(ctx, "evaluation %s: unknown event kind %q from %s", evaluationID, evt.Kind, evt.Source)
			metric.RecordDropped(ctx, evt.Kind.String())
		}
	}
	if ctx.Err() != nil {
		return statusCancelled
	}
	return statusOK
}

// Run evaluates topic with modelName (DefaultModel when empty). The
// credential is left to the client library's environment lookup.
func Run(ctx context.Context, topic, modelName string) (<-chan Update, error) {
	return New(Config{Model: modelName}).Run(ctx, topic)
}

// Drain reads updates until the channel closes and returns the lines. The
// first update error, or ctx's error, is returned with the lines read so
// far.
func Drain(ctx context.Context, updates <-chan Update) ([]string, error) {
	var lines []string
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return lines, nil
			}
			if u.Err != nil {
				return lines, u.Err
			}
			lines = append(lines, u.Line)
		case <-ctx.Done():
			return lines, ctx.Err()
		}
	}
}
