//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package model provides interfaces for working with LLMs.
package model

import "context"

// Model is the interface that all language models must implement.
type Model interface {
	// GenerateContent sends the request and returns a channel of responses.
	// The channel is closed once the final response (Done == true) has been
	// delivered or ctx is cancelled.
	//
	// A non-nil error means the request could not be issued at all. Failures
	// reported by the remote service arrive as Response.Error instead.
	GenerateContent(ctx context.Context, request *Request) (<-chan *Response, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info contains basic information about a Model.
type Info struct {
	// Name is the model identifier sent to the provider.
	Name string
}
