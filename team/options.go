//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package team

const (
	defaultMaxRounds  = 1
	defaultTaskSource = "user"
)

type options struct {
	maxRounds         int
	taskSource        string
	channelBufferSize int
}

func defaultOptions() options {
	return options{
		maxRounds:  defaultMaxRounds,
		taskSource: defaultTaskSource,
	}
}

// Option configures a RoundRobin.
type Option func(*options)

// WithMaxRounds caps the number of rounds. Every participant speaks once
// per round.
func WithMaxRounds(rounds int) Option {
	return func(o *options) {
		o.maxRounds = rounds
	}
}

// WithTaskSource sets the source name of the task message.
func WithTaskSource(source string) Option {
	return func(o *options) {
		o.taskSource = source
	}
}

// WithChannelBufferSize sets the buffer of the run's event channel.
// The default of zero makes the run advance in lockstep with its consumer.
func WithChannelBufferSize(size int) Option {
	return func(o *options) {
		if size < 0 {
			size = 0
		}
		o.channelBufferSize = size
	}
}
