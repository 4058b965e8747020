//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package cmd implements the startup-eval command line.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/startup-eval/evaluator"
	"trpc.group/trpc-go/startup-eval/internal/config"
	"trpc.group/trpc-go/startup-eval/log"
	"trpc.group/trpc-go/startup-eval/telemetry/metric"
	"trpc.group/trpc-go/startup-eval/telemetry/trace"
)

var (
	// cfg is filled by the root pre-run hook.
	cfg config.Config
	// cleanups run after the command, newest first.
	cleanups []func() error

	loadConfig   = config.Load
	newEvaluator = evaluator.New
)

var rootCmd = &cobra.Command{
	Use:   "startup-eval",
	Short: "Evaluate startup ideas with a team of analyst agents",
	Long: `startup-eval asks a market analyst, a financial analyst and a technology
expert to take turns reviewing a startup idea, and prints or streams their
critiques.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx; commands stop when ctx is
// done.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "dotenv file to load (default .env)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
}

func setup(cmd *cobra.Command, _ []string) error {
	var files []string
	if f, _ := cmd.Flags().GetString("env-file"); f != "" {
		files = append(files, f)
	}
	loaded, err := loadConfig(files...)
	if err != nil {
		return err
	}
	cfg = loaded
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log.SetLevel(cfg.LogLevel)
	return startTelemetry(cmd)
}

func startTelemetry(cmd *cobra.Command) error {
	if cfg.OTelProtocol == "" {
		return nil
	}
	ctx := cmd.Context()
	cleanTrace, err := trace.Start(ctx, trace.WithProtocol(cfg.OTelProtocol))
	if err != nil {
		return fmt.Errorf("start tracing: %w", err)
	}
	cleanups = append(cleanups, cleanTrace)
	cleanMetric, err := metric.Start(ctx, metric.WithProtocol(cfg.OTelProtocol))
	if err != nil {
		return fmt.Errorf("start metrics: %w", err)
	}
	cleanups = append(cleanups, cleanMetric)
	log.Infof("telemetry exporting over otlp/%s", cfg.OTelProtocol)
	return nil
}

func teardown(*cobra.Command, []string) error {
	var errs []error
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	cleanups = nil
	return errors.Join(errs...)
}
