//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package server serves the evaluation page and streams evaluations to it
// over server-sent events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/cors"
	"github.com/yuin/goldmark"

	"trpc.group/trpc-go/startup-eval/evaluator"
	"trpc.group/trpc-go/startup-eval/log"
)

const defaultMaxConcurrent = 4

// Runner runs one evaluation. *evaluator.Evaluator implements it.
type Runner interface {
	Run(ctx context.Context, topic string) (<-chan evaluator.Update, error)
}

// RunnerFactory returns the runner for a model identifier. An empty
// identifier selects the configured default.
type RunnerFactory func(model string) Runner

// Server is the HTTP front end.
type Server struct {
	cfg           evaluator.Config
	router        *mux.Router
	handler       http.Handler
	pool          *ants.Pool
	md            goldmark.Markdown
	newRunner     RunnerFactory
	maxConcurrent int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxConcurrent bounds the number of evaluations streamed at once.
// Requests beyond it are answered with 503.
func WithMaxConcurrent(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithRunnerFactory replaces how evaluations are run.
func WithRunnerFactory(fn RunnerFactory) Option {
	return func(s *Server) {
		if fn != nil {
			s.newRunner = fn
		}
	}
}

// New creates a server. Close must be called to release its worker pool.
func New(cfg evaluator.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:           cfg,
		router:        mux.NewRouter(),
		md:            goldmark.New(),
		maxConcurrent: defaultMaxConcurrent,
	}
	s.newRunner = s.defaultRunner
	for _, opt := range opts {
		opt(s)
	}

	pool, err := ants.NewPool(s.maxConcurrent, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create evaluation pool: %w", err)
	}
	s.pool = pool

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
	})
	s.registerRoutes()
	s.handler = c.Handler(s.router)
	return s, nil
}

func (s *Server) defaultRunner(model string) Runner {
	cfg := s.cfg
	if model != "" {
		cfg.Model = model
	}
	return evaluator.New(cfg)
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.handler }

// Close releases the worker pool.
func (s *Server) Close() {
	s.pool.Release()
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/evaluate", s.handleEvaluate).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"running": s.pool.Running(),
		"free":    s.pool.Free(),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	model := strings.TrimSpace(r.URL.Query().Get("model"))
	log.Infof("handleEvaluate called: model=%q topic length=%d", model, len(topic))

	if strings.TrimSpace(topic) == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: evaluator.ErrEmptyTopic.Error()})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	done := make(chan struct{})
	err := s.pool.Submit(func() {
		defer close(done)
		s.stream(r.Context(), w, flusher, s.newRunner(model), topic)
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			log.Warnf("handleEvaluate rejected: %d evaluations running", s.pool.Running())
			writeJSON(w, http.StatusServiceUnavailable, errorPayload{Message: "too many evaluations in progress"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: err.Error()})
		return
	}
	<-done
	log.Infof("handleEvaluate finished")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write json response: %v", err)
	}
}
