//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openaigo "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/startup-eval/model"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Big TAM"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
}`

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
		Name    string `json:"name"`
	} `json:"messages"`
	Temperature *float64 `json:"temperature"`
}

func newTestServer(t *testing.T, status int, body string, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestModel(srv *httptest.Server, opts ...Option) *Model {
	opts = append([]Option{
		WithAPIKey("test-key"),
		WithBaseURL(srv.URL + "/"),
		WithOpenAIOptions(openaiopt.WithMaxRetries(0)),
	}, opts...)
	return New("gpt-4o-mini", opts...)
}

func collect(t *testing.T, ch <-chan *model.Response) []*model.Response {
	t.Helper()
	var out []*model.Response
	for rsp := range ch {
		out = append(out, rsp)
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "with api key", opts: []Option{WithAPIKey("test-key")}},
		{name: "empty api key", opts: []Option{WithAPIKey("")}},
		{name: "custom base url", opts: []Option{WithBaseURL("https://api.custom.com/v1/")}},
		{name: "non-positive buffer", opts: []Option{WithChannelBufferSize(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New("gpt-4o-mini", tt.opts...)
			require.NotNil(t, m)
			require.Equal(t, "gpt-4o-mini", m.Info().Name)
			require.Equal(t, defaultChannelBufferSize, m.channelBufferSize)
		})
	}
}

func TestModel_GenerateContent(t *testing.T) {
	var seen capturedRequest
	srv := newTestServer(t, http.StatusOK, completionBody, &seen)

	var requested, responded bool
	m := newTestModel(srv,
		WithChatRequestCallback(func(ctx context.Context, req *openaigo.ChatCompletionNewParams) {
			requested = true
		}),
		WithChatResponseCallback(func(
			ctx context.Context, req *openaigo.ChatCompletionNewParams, rsp *openaigo.ChatCompletion,
		) {
			responded = true
		}),
	)

	ch, err := m.GenerateContent(context.Background(), &model.Request{
		Messages: []model.Message{
			model.NewSystemMessage("You are a Market Research Analyst."),
			model.NewUserMessage("Evaluate this startup idea:  **x** ").WithName("user"),
			model.NewAssistantMessage("earlier").WithName("market_agent"),
		},
		GenerationConfig: model.GenerationConfig{Temperature: model.Float64Ptr(0.2)},
	})
	require.NoError(t, err)

	rsps := collect(t, ch)
	require.Len(t, rsps, 1)
	rsp := rsps[0]
	require.Nil(t, rsp.Error)
	require.True(t, rsp.Done)
	require.Equal(t, "Big TAM", rsp.Content())
	require.Equal(t, model.ObjectTypeChatCompletion, rsp.Object)
	require.NotNil(t, rsp.Choices[0].FinishReason)
	require.Equal(t, "stop", *rsp.Choices[0].FinishReason)
	require.Equal(t, &model.Usage{PromptTokens: 10, CompletionTokens: 3, TotalTokens: 13}, rsp.Usage)
	require.True(t, requested)
	require.True(t, responded)

	require.Equal(t, "gpt-4o-mini", seen.Model)
	require.Len(t, seen.Messages, 3)
	require.Equal(t, "system", seen.Messages[0].Role)
	require.Empty(t, seen.Messages[0].Name)
	require.Equal(t, "user", seen.Messages[1].Role)
	require.Equal(t, "user", seen.Messages[1].Name)
	require.Equal(t, "assistant", seen.Messages[2].Role)
	require.Equal(t, "market_agent", seen.Messages[2].Name)
	require.NotNil(t, seen.Temperature)
	require.InDelta(t, 0.2, *seen.Temperature, 1e-9)
}

func TestModel_GenerateContent_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest,
		`{"error":{"message":"invalid model","type":"invalid_request_error"}}`, nil)
	m := newTestModel(srv)

	ch, err := m.GenerateContent(context.Background(), &model.Request{
		Messages: []model.Message{model.NewUserMessage("hi")},
	})
	require.NoError(t, err)

	rsps := collect(t, ch)
	require.Len(t, rsps, 1)
	require.NotNil(t, rsps[0].Error)
	require.Equal(t, model.ErrorTypeAPIError, rsps[0].Error.Type)
	require.Contains(t, rsps[0].Error.Message, "invalid model")

	var apiErr *openaigo.Error
	require.True(t, errors.As(rsps[0].Error, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestModel_GenerateContent_InvalidRequest(t *testing.T) {
	m := New("gpt-4o-mini")

	_, err := m.GenerateContent(context.Background(), nil)
	require.Error(t, err)

	_, err = m.GenerateContent(context.Background(), &model.Request{})
	require.Error(t, err)
}

func TestModel_GenerateContent_ContextCancelled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, completionBody, nil)
	m := newTestModel(srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch, err := m.GenerateContent(ctx, &model.Request{
		Messages: []model.Message{model.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	for rsp := range ch {
		require.NotNil(t, rsp.Error)
	}
}

func TestBuildChatRequest(t *testing.T) {
	m := New("gpt-4o-mini")
	req := m.buildChatRequest(&model.Request{
		Messages: []model.Message{model.NewUserMessage("hi")},
		GenerationConfig: model.GenerationConfig{
			MaxTokens: model.IntPtr(128),
			TopP:      model.Float64Ptr(0.9),
			Stop:      []string{"END"},
		},
	})
	require.Equal(t, "gpt-4o-mini", string(req.Model))
	require.Len(t, req.Messages, 1)
	require.Equal(t, int64(128), req.MaxCompletionTokens.Value)
	require.Equal(t, 0.9, req.TopP.Value)
	require.Equal(t, []string{"END"}, req.Stop.OfStringArray)
}
