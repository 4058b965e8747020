//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"fmt"
	"time"
)

// Error type constants for ResponseError.Type field.
const (
	ErrorTypeAPIError  = "api_error"
	ErrorTypeFlowError = "flow_error"
	ErrorTypeRunError  = "run_error"
)

// ObjectTypeChatCompletion is the object type of a complete chat response.
const ObjectTypeChatCompletion = "chat.completion"

// Choice represents a single completion choice.
type Choice struct {
	// Index is the index of the choice.
	Index int `json:"index"`

	// Message is the message content.
	Message Message `json:"message,omitempty"`

	// FinishReason is the reason the choice was finished.
	// "stop", "length", "content_filter", etc.
	FinishReason *string `json:"finish_reason,omitempty"`
}

// Usage represents token usage information.
type Usage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens in the response.
	TotalTokens int `json:"total_tokens"`
}

// Response is the response from the model.
//
// Error carries failures reported after the request was issued (HTTP
// errors, rate limits, malformed payloads). Errors returned directly by
// GenerateContent mean the request never left the process.
type Response struct {
	// ID is the unique identifier for this response.
	ID string `json:"id"`

	// Object describes the type of object returned (e.g., "chat.completion").
	Object string `json:"object"`

	// Created is the Unix timestamp when the response was created.
	Created int64 `json:"created"`

	// Model is the model used to generate the response.
	Model string `json:"model"`

	// Choices contains the completion choices.
	Choices []Choice `json:"choices"`

	// Usage contains token usage information.
	Usage *Usage `json:"usage,omitempty"`

	// Error contains API-level error information if the request failed.
	Error *ResponseError `json:"error,omitempty"`

	// Timestamp when this response was received.
	Timestamp time.Time `json:"timestamp"`

	// Done indicates this is the last response on the channel.
	Done bool `json:"done"`
}

// Content returns the text of the first choice, or "" when there is none.
func (rsp *Response) Content() string {
	if rsp == nil || len(rsp.Choices) == 0 {
		return ""
	}
	return rsp.Choices[0].Message.Content
}

// ResponseError represents an error response from the API.
type ResponseError struct {
	// Message is the error message.
	Message string `json:"message"`

	// Type is the type of error.
	Type string `json:"type"`

	// Cause is the original error when one is available. It is not
	// serialized.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the original cause so errors.Is and errors.As reach it.
func (e *ResponseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
