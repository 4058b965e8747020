//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package proxyagent

const defaultChannelBufferSize = 1

type options struct {
	description       string
	prompt            string
	inputFunc         InputFunc
	channelBufferSize int
}

var defaultOptions = options{
	prompt:            DefaultPrompt,
	inputFunc:         RestateTask,
	channelBufferSize: defaultChannelBufferSize,
}

// Option configures a ProxyAgent.
type Option func(*options)

// WithDescription sets the description of the agent.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// WithInputFunc sets where replies come from. A nil fn keeps the default.
func WithInputFunc(fn InputFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.inputFunc = fn
		}
	}
}

// WithPrompt sets the prompt handed to the input function.
func WithPrompt(prompt string) Option {
	return func(o *options) {
		o.prompt = prompt
	}
}

// WithChannelBufferSize sets the buffer size for event channels.
func WithChannelBufferSize(size int) Option {
	return func(o *options) {
		if size < 0 {
			size = defaultChannelBufferSize
		}
		o.channelBufferSize = size
	}
}
