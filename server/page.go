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
	"embed"
	"html/template"
	"net/http"

	"trpc.group/trpc-go/startup-eval/log"
)

//go:embed assets/index.html.tmpl
var assets embed.FS

var indexTemplate = template.Must(template.ParseFS(assets, "assets/index.html.tmpl"))

// Page texts.
const (
	PageTitle       = "🚀 Startup Idea Evaluator"
	PromptLabel     = "Describe your startup idea:"
	ButtonLabel     = "Evaluate Idea"
	EmptyIdeaNotice = "Please enter a startup idea before running the evaluation."
	RunningNotice   = "Evaluating your idea. This may take a few seconds..."
	CompleteNotice  = "✅ Evaluation complete!"
)

type pageData struct {
	Title           string
	PromptLabel     string
	ButtonLabel     string
	EmptyIdeaNotice string
	RunningNotice   string
	CompleteNotice  string
	Model           string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, pageData{
		Title:           PageTitle,
		PromptLabel:     PromptLabel,
		ButtonLabel:     ButtonLabel,
		EmptyIdeaNotice: EmptyIdeaNotice,
		RunningNotice:   RunningNotice,
		CompleteNotice:  CompleteNotice,
		Model:           s.cfg.Model,
	})
	if err != nil {
		log.Errorf("render index: %v", err)
		http.Error(w, "render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
