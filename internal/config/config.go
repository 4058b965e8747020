//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"trpc.group/trpc-go/startup-eval/evaluator"
)

// Config is the process configuration.
type Config struct {
	OpenAIAPIKey             string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL            string `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	Model                    string `env:"STARTUP_EVAL_MODEL,default=gpt-4o-mini" validate:"required"`
	Addr                     string `env:"STARTUP_EVAL_ADDR,default=:8501" validate:"required"`
	LogLevel                 string `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	MaxConcurrentEvaluations int    `env:"MAX_CONCURRENT_EVALUATIONS,default=4" validate:"gte=1"`
	OTelProtocol             string `env:"STARTUP_EVAL_OTEL_PROTOCOL" validate:"omitempty,oneof=grpc http"`
}

var validate = validator.New()

// Load reads the given .env files (".env" when none is given), then the
// process environment. Missing files are ignored; variables already set in
// the environment win over file values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	es, err := env.EnvironToEnvSet(environ())
	if err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return FromEnvSet(es)
}

// FromEnvSet decodes and validates a configuration from es.
func FromEnvSet(es env.EnvSet) (Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Evaluator returns the evaluator settings.
func (c Config) Evaluator() evaluator.Config {
	return evaluator.Config{
		Model:   c.Model,
		APIKey:  c.OpenAIAPIKey,
		BaseURL: c.OpenAIBaseURL,
	}
}
