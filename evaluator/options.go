//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package evaluator

import (
	"trpc.group/trpc-go/startup-eval/agent/proxyagent"
	"trpc.group/trpc-go/startup-eval/model"
	"trpc.group/trpc-go/startup-eval/model/openai"
	"trpc.group/trpc-go/startup-eval/team"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4o-mini"

// Config carries everything a team build needs from the outside.
type Config struct {
	// Model is the chat model identifier.
	Model string
	// APIKey is the provider credential. Empty leaves the client library's
	// own environment lookup in place.
	APIKey string
	// BaseURL overrides the provider endpoint.
	BaseURL string
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return c
}

// ModelFactory creates the model client of one team.
type ModelFactory func(cfg Config) model.Model

// EngineFactory creates the conversation engine of one evaluation.
type EngineFactory func(cfg Config) (team.Engine, error)

// NewOpenAIModel is the default ModelFactory.
func NewOpenAIModel(cfg Config) model.Model {
	return openai.New(cfg.Model,
		openai.WithAPIKey(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
	)
}

type options struct {
	modelFactory  ModelFactory
	engineFactory EngineFactory
	inputFunc     proxyagent.InputFunc
}

func newOptions(opts ...Option) options {
	o := options{
		modelFactory: NewOpenAIModel,
		inputFunc:    proxyagent.RestateTask,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Option configures team building and evaluation.
type Option func(*options)

// WithModelFactory replaces how model clients are created.
func WithModelFactory(fn ModelFactory) Option {
	return func(o *options) {
		if fn != nil {
			o.modelFactory = fn
		}
	}
}

// WithEngineFactory replaces the team used by Evaluator.Run. BuildTeam
// ignores it.
func WithEngineFactory(fn EngineFactory) Option {
	return func(o *options) {
		o.engineFactory = fn
	}
}

// WithInputFunc sets where the user proxy's replies come from.
func WithInputFunc(fn proxyagent.InputFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.inputFunc = fn
		}
	}
}
