//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/google/uuid"

	"trpc.group/trpc-go/startup-eval/evaluator"
	"trpc.group/trpc-go/startup-eval/log"
)

// SSE event names.
const (
	EventUpdate   = "update"
	EventComplete = "complete"
	EventError    = "error"
)

type updatePayload struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Content string `json:"content"`
	HTML    string `json:"html"`
	Line    string `json:"line"`
	Count   int    `json:"count"`
}

type completePayload struct {
	Count int `json:"count"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// stream runs one evaluation and writes it as SSE. Nothing is written
// before the runner accepted the topic, so its errors still get a plain
// JSON status.
func (s *Server) stream(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, runner Runner, topic string) {
	updates, err := runner.Run(ctx, topic)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, evaluator.ErrEmptyTopic) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorPayload{Message: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var count int
	for u := range updates {
		if u.Err != nil {
			log.Warnf("evaluation failed after %d updates: %v", count, u.Err)
			if err := writeEvent(w, EventError, errorPayload{Message: u.Err.Error()}); err != nil {
				log.Errorf("write sse event: %v", err)
			}
			flusher.Flush()
			return
		}
		count++
		payload := updatePayload{
			ID:      uuid.NewString(),
			Source:  u.Source,
			Content: u.Content,
			HTML:    s.renderMarkdown(u.Content),
			Line:    u.Line,
			Count:   count,
		}
		if err := writeEvent(w, EventUpdate, payload); err != nil {
			log.Errorf("write sse event: %v", err)
			return
		}
		flusher.Flush()
	}
	if ctx.Err() != nil {
		log.Infof("client went away after %d updates", count)
		return
	}
	if err := writeEvent(w, EventComplete, completePayload{Count: count}); err != nil {
		log.Errorf("write sse event: %v", err)
	}
	flusher.Flush()
}

func writeEvent(w io.Writer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", name, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}

// renderMarkdown converts message content to HTML. Raw HTML in the
// content is not passed through. On failure the content is returned
// escaped as a preformatted block.
func (s *Server) renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		log.Warnf("render markdown: %v", err)
		buf.Reset()
		buf.WriteString("<pre>")
		template.HTMLEscape(&buf, []byte(content))
		buf.WriteString("</pre>")
	}
	return buf.String()
}
